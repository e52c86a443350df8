package sqlinline

const QSelectProviderKey = `--sql 8a8e0d52-7f5d-4f21-8b7d-f7d4b821eed7
select api_key
from provider_keys
where provider = $1::text
limit 1;
`

const QUpsertProviderKey = `--sql 6d4f5660-0f7c-4f73-a1f3-9ab6d5e6c7a3
insert into provider_keys (provider, api_key, updated_by, updated_at)
values ($1::text, $2::text, $3::text, now())
on conflict (provider) do update set
    api_key = excluded.api_key,
    updated_by = excluded.updated_by,
    updated_at = now();
`

const QDeleteProviderKey = `--sql 0b7c61f2-5a0e-4c4e-9d55-3f0e8f6a2c91
delete from provider_keys
where provider = $1::text;
`
