// internal/service/catalog/infrastructure/redis/lesson_repository.go
package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"lessonhub/internal/pkg/apperr"
	redisclient "lessonhub/internal/pkg/redis"
	"lessonhub/internal/service/catalog/domain"
)

const (
	decrementScriptName = "lesson_decrement"
	incrementScriptName = "lesson_increment"
	insertScriptName    = "lesson_insert"
	updateScriptName    = "lesson_update"

	// 所有 key 使用同一个 hash tag, 集群模式下脚本涉及的 key 落在同一个 slot。
	indexKey = "{lessons}:index"
)

func lessonKey(id string) string {
	return fmt.Sprintf("{lessons}:lesson:%s", id)
}

// LessonRepository 是 domain.LessonRepository 的 Redis 实现。
// 每个课程是一个 hash, 名额的检查与扣减在 Lua 脚本中原子执行。
type LessonRepository struct {
	redisClient *redisclient.Client
}

// NewLessonRepository 创建仓储并加载所需的 Lua 脚本。
func NewLessonRepository(redisClient *redisclient.Client) (*LessonRepository, error) {
	scripts := map[string]string{
		decrementScriptName: decrementScript,
		incrementScriptName: incrementScript,
		insertScriptName:    insertScript,
		updateScriptName:    updateScript,
	}
	for name, src := range scripts {
		if err := redisClient.LoadScriptFromContent(name, src); err != nil {
			return nil, fmt.Errorf("failed to load lesson script %s: %w", name, err)
		}
	}
	return &LessonRepository{redisClient: redisClient}, nil
}

func (r *LessonRepository) List(ctx context.Context) ([]domain.Lesson, error) {
	ids, err := r.redisClient.GetClient().SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, apperr.Storage(err, "list lesson ids")
	}
	return r.BatchRead(ctx, ids)
}

func (r *LessonRepository) Get(ctx context.Context, id string) (*domain.Lesson, error) {
	fields, err := r.redisClient.GetClient().HGetAll(ctx, lessonKey(id)).Result()
	if err != nil {
		return nil, apperr.Storage(err, "get lesson %s", id)
	}
	if len(fields) == 0 {
		return nil, apperr.NotFound("lesson %s not found", id)
	}
	l, err := fromHash(fields)
	if err != nil {
		return nil, apperr.Storage(err, "decode lesson %s", id)
	}
	return &l, nil
}

func (r *LessonRepository) BatchRead(ctx context.Context, ids []string) ([]domain.Lesson, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	// 使用 pipeline 一次往返读取所有 hash
	pipe := r.redisClient.GetClient().Pipeline()
	cmds := make([]*goredis.MapStringStringCmd, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		cmds = append(cmds, pipe.HGetAll(ctx, lessonKey(id)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, apperr.Storage(err, "batch read lessons")
	}

	out := make([]domain.Lesson, 0, len(cmds))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		l, err := fromHash(fields)
		if err != nil {
			return nil, apperr.Storage(err, "decode lesson")
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LessonRepository) InsertIfAbsent(ctx context.Context, lessons []domain.Lesson) (int, error) {
	inserted := 0
	for i := range lessons {
		l := &lessons[i]
		args := append([]interface{}{l.ID}, toHashArgs(l)...)
		res, err := r.redisClient.RunScript(ctx, insertScriptName, []string{lessonKey(l.ID), indexKey}, args...)
		if err != nil {
			return inserted, apperr.Storage(err, "insert lesson %s", l.ID)
		}
		if code, _ := res.(int64); code == 1 {
			inserted++
		}
	}
	return inserted, nil
}

func (r *LessonRepository) Update(ctx context.Context, id string, patch domain.LessonPatch) (*domain.Lesson, error) {
	var args []interface{}
	for col, v := range patch.Columns() {
		args = append(args, hashField(col), fmt.Sprint(v))
	}
	res, err := r.redisClient.RunScript(ctx, updateScriptName, []string{lessonKey(id)}, args...)
	if err != nil {
		return nil, apperr.Storage(err, "update lesson %s", id)
	}
	if code, _ := res.(int64); code == 0 {
		return nil, apperr.NotFound("lesson %s not found", id)
	}
	return r.Get(ctx, id)
}

func (r *LessonRepository) ConditionalDecrement(ctx context.Context, id string, n int) error {
	res, err := r.redisClient.RunScript(ctx, decrementScriptName, []string{lessonKey(id)}, n)
	if err != nil {
		return apperr.Storage(err, "decrement lesson %s", id)
	}
	code, ok := res.(int64)
	if !ok {
		return apperr.Storage(fmt.Errorf("unexpected result type from Lua script: %T", res), "decrement lesson %s", id)
	}
	if code != 1 {
		return apperr.Conflict(nil, "lesson %s: capacity below %d at commit", id, n)
	}
	return nil
}

func (r *LessonRepository) Increment(ctx context.Context, id string, n int) error {
	res, err := r.redisClient.RunScript(ctx, incrementScriptName, []string{lessonKey(id)}, n)
	if err != nil {
		return apperr.Storage(err, "increment lesson %s", id)
	}
	if code, _ := res.(int64); code == 0 {
		return apperr.NotFound("lesson %s not found", id)
	}
	return nil
}

// hash 中的字段名与 SQL 列名保持一致, 名额字段单独命名为 capacity。
func hashField(col string) string {
	if col == "available_capacity" {
		return "capacity"
	}
	return col
}

func toHashArgs(l *domain.Lesson) []interface{} {
	return []interface{}{
		"id", l.ID,
		"title", l.Title,
		"location", l.Location,
		"price", strconv.FormatFloat(l.Price, 'f', -1, 64),
		"capacity", strconv.Itoa(l.AvailableCapacity),
		"description", l.Description,
		"image", l.Image,
	}
}

func fromHash(fields map[string]string) (domain.Lesson, error) {
	price, err := strconv.ParseFloat(fields["price"], 64)
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("price %q: %w", fields["price"], err)
	}
	capacity, err := strconv.Atoi(fields["capacity"])
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("capacity %q: %w", fields["capacity"], err)
	}
	return domain.Lesson{
		ID:                fields["id"],
		Title:             fields["title"],
		Location:          fields["location"],
		Price:             price,
		AvailableCapacity: capacity,
		Description:       fields["description"],
		Image:             fields["image"],
	}, nil
}

// KEYS[1]: 课程 hash, 例如 {lessons}:lesson:lesson-001
// ARGV[1]: 需要扣减的名额
// 返回 1 成功, 0 名额不足, -1 课程不存在
const decrementScript = `
if redis.call('exists', KEYS[1]) == 0 then
    return -1
end
local capacity = tonumber(redis.call('hget', KEYS[1], 'capacity'))
local n = tonumber(ARGV[1])
if capacity == nil or capacity < n then
    return 0
end
redis.call('hincrby', KEYS[1], 'capacity', -n)
return 1
`

// KEYS[1]: 课程 hash; ARGV[1]: 归还的名额
const incrementScript = `
if redis.call('exists', KEYS[1]) == 0 then
    return 0
end
redis.call('hincrby', KEYS[1], 'capacity', tonumber(ARGV[1]))
return 1
`

// KEYS[1]: 课程 hash, KEYS[2]: 索引 set
// ARGV[1]: 课程 ID, ARGV[2..]: field/value 对
const insertScript = `
if redis.call('exists', KEYS[1]) == 1 then
    return 0
end
for i = 2, #ARGV, 2 do
    redis.call('hset', KEYS[1], ARGV[i], ARGV[i + 1])
end
redis.call('sadd', KEYS[2], ARGV[1])
return 1
`

// KEYS[1]: 课程 hash; ARGV: field/value 对
const updateScript = `
if redis.call('exists', KEYS[1]) == 0 then
    return 0
end
for i = 1, #ARGV, 2 do
    redis.call('hset', KEYS[1], ARGV[i], ARGV[i + 1])
end
return 1
`
