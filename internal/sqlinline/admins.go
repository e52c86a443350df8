package sqlinline

const QSelectAdminExists = `--sql edd18ab4-7258-4c0d-b34e-d4da7271cd54
select exists (
    select 1 from admins where email = lower($1::text)
);
`

const QInsertAdmin = `--sql 2ec43fad-4007-4948-bf41-96fd6e549f73
insert into admins (email, added_by, added_at)
values (lower($1::text), nullif($2::text, ''), now())
on conflict (email) do nothing;
`

const QListAdmins = `--sql 12bf8342-d874-4563-a0f8-c37458b5d2ad
select email, coalesce(added_by, ''), added_at
from admins
order by added_at asc;
`
