package sqlinline

const QInsertConsent = `--sql 49fcf6ca-6da4-44b7-a099-d1a9e6f19640
insert into consents (user_id, kind, granted, created_at)
values ($1::text, $2::text, $3::boolean, $4::timestamptz);
`
