package sqlinline

const QSelectRecord = `--sql 116d2f6e-cfd2-4a14-b38c-402a0a155d2e
select value
from records
where key = $1::text
limit 1;
`

const QUpsertRecord = `--sql 1244166e-a19b-4520-891b-dedd953f68c4
insert into records (key, value, updated_at)
values ($1::text, $2::jsonb, now())
on conflict (key) do update set
    value = excluded.value,
    updated_at = now();
`

const QDeleteRecord = `--sql d04d1299-720f-4f78-a240-3559f0d63513
delete from records
where key = $1::text;
`

const QSelectIntegrationToken = `--sql 376bf335-a811-47b8-9f5c-041d32be1566
select token
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql 0caa6cfe-2804-4a2a-b0d2-867e77a387e4
insert into integration_tokens (provider, token, props, updated_at)
values ($1::text, $2::text, $3::jsonb, now())
on conflict (provider) do update set
    token = excluded.token,
    props = excluded.props,
    updated_at = now();
`
