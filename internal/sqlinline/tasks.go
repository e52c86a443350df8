package sqlinline

// Task queries return: id, user_id, title, description, sub_tasks, completed, created_at, updated_at.

const QListTasksByUser = `--sql 9bf34dd1-07a9-4a42-affd-5f1e31a67127
select id::text, user_id, title, description, sub_tasks, completed, created_at, updated_at
from tasks
where user_id = $1::text
order by created_at desc;
`

const QSelectTask = `--sql dd4cdba5-1ca6-47d8-92d1-fe4034b27c64
select id::text, user_id, title, description, sub_tasks, completed, created_at, updated_at
from tasks
where id = $1::uuid
limit 1;
`

const QSelectTaskForUpdate = `--sql 8dd2dca8-d59c-4c9a-83f1-dec82a21c6b4
select id::text, user_id, title, description, sub_tasks, completed, created_at, updated_at
from tasks
where id = $1::uuid
for update;
`

const QInsertTask = `--sql c2465a48-07c9-4f57-80db-ded17797e8f0
insert into tasks (id, user_id, title, description, sub_tasks, completed, created_at, updated_at)
values ($1::uuid, $2::text, $3::text, $4::text, $5::jsonb, $6::boolean, $7::timestamptz, $7::timestamptz);
`

const QUpdateTask = `--sql cfd2125c-5d5d-4e00-aee1-d4ff957a30f8
update tasks
set title = $2::text,
    description = $3::text,
    sub_tasks = $4::jsonb,
    completed = $5::boolean,
    updated_at = $6::timestamptz
where id = $1::uuid;
`

const QDeleteTask = `--sql f6a365b9-ae04-4d71-8f93-f22c3618eee2
delete from tasks
where id = $1::uuid;
`

const QDeleteTasksByUser = `--sql 3ca56e26-77c6-422b-88e0-4966518f3ca1
delete from tasks
where user_id = $1::text;
`
