package sqlinline

// Every credit query returns the record columns in this order:
// user_id, email, credits, last_updated, is_subscribed, subscription_ends, promo_claimed_at.

// QInitCredits upserts so a concurrent first sign-in waits on the winner's row
// lock and returns the committed record instead of an empty result.
const QInitCredits = `--sql 3d60c88f-a5a5-48dc-99a1-9185efce39b7
insert into user_credits (user_id, email, credits, last_updated, is_subscribed)
values ($1::text, lower($2::text), $3::int, now(), false)
on conflict (user_id) do update set user_id = excluded.user_id
returning user_id, email, credits, last_updated, is_subscribed, subscription_ends, promo_claimed_at;
`

const QSelectCredits = `--sql 70b0fb94-fbe1-4a43-808f-22c6cd8fd59a
select user_id, email, credits, last_updated, is_subscribed, subscription_ends, promo_claimed_at
from user_credits
where user_id = $1::text
limit 1;
`

// QDeductCredit is the atomic check-and-decrement. A subscriber inside the
// window keeps the balance untouched; everyone else needs credits > 0.
const QDeductCredit = `--sql 680cc850-aac3-43d6-a2f6-6a882d13c0c2
update user_credits
set credits = case
        when is_subscribed and subscription_ends > $2::timestamptz then credits
        else credits - 1
    end,
    last_updated = $2::timestamptz
where user_id = $1::text
  and (credits > 0 or (is_subscribed and subscription_ends > $2::timestamptz))
returning user_id, email, credits, last_updated, is_subscribed, subscription_ends, promo_claimed_at;
`

const QGrantCredits = `--sql 620a05b1-a289-4953-9975-8a87142187dc
update user_credits
set credits = credits + $2::int,
    last_updated = now()
where user_id = $1::text
returning user_id, email, credits, last_updated, is_subscribed, subscription_ends, promo_claimed_at;
`

const QSetCredits = `--sql 2551e6f5-5c80-4f98-a9c5-07c2764324fa
update user_credits
set credits = $2::int,
    last_updated = now()
where user_id = $1::text
returning user_id, email, credits, last_updated, is_subscribed, subscription_ends, promo_claimed_at;
`

const QSetSubscription = `--sql 2f7ce5f6-0af4-4d93-8431-972f0a9ba5fa
update user_credits
set is_subscribed = $2::boolean,
    subscription_ends = $3::timestamptz,
    last_updated = now()
where user_id = $1::text
returning user_id, email, credits, last_updated, is_subscribed, subscription_ends, promo_claimed_at;
`

const QClaimPromo = `--sql 6c012c1f-0a0b-4a4d-9409-1c55b7b6e941
update user_credits
set credits = credits + $2::int,
    promo_claimed_at = $3::timestamptz,
    last_updated = $3::timestamptz
where user_id = $1::text
  and promo_claimed_at is null
returning user_id, email, credits, last_updated, is_subscribed, subscription_ends, promo_claimed_at;
`

const QListCredits = `--sql 1d13a7f1-413f-44b6-af58-a0af9c8c9ad5
select user_id, email, credits, last_updated, is_subscribed, subscription_ends, promo_claimed_at
from user_credits
order by last_updated desc
limit $1::int;
`

const QDeleteCredits = `--sql 806abea4-20e0-476d-8ff6-f8c0013f39cb
delete from user_credits
where user_id = $1::text;
`
