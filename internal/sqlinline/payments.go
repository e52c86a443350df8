package sqlinline

// Payment order queries return: id, user_id, plan_id, amount, currency, status, result_code, created_at, updated_at.

const QInsertPaymentOrder = `--sql f5543d40-f1f7-4983-b212-85bf99caca2c
insert into payment_orders (id, user_id, plan_id, amount, currency, status, created_at, updated_at)
values ($1::uuid, $2::text, $3::text, $4::numeric, $5::text, $6::text, now(), now())
returning created_at;
`

const QSelectPaymentOrder = `--sql 4bf2f117-3f53-4cdf-af07-9ad33b19cf08
select id::text, user_id, plan_id, amount::float8, currency, status, coalesce(result_code, ''), created_at, updated_at
from payment_orders
where id = $1::uuid
limit 1;
`

// QTransitionPaymentOrder only matches while the order is still in the
// expected status, which makes settlement exactly-once.
const QTransitionPaymentOrder = `--sql 0993869a-3483-45da-8d29-f1d57e412d73
update payment_orders
set status = $3::text,
    result_code = nullif($4::text, ''),
    updated_at = now()
where id = $1::uuid
  and status = $2::text
returning id::text, user_id, plan_id, amount::float8, currency, status, coalesce(result_code, ''), created_at, updated_at;
`
