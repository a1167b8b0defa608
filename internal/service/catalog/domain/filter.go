package domain

// Predicate 判断一条课程是否满足过滤条件。
type Predicate func(l Lesson) (bool, error)

// FilterEngine 把用户传入的过滤表达式编译成 Predicate。
// 表达式语法错误或结果不是 bool 时返回 Validation 错误。
type FilterEngine interface {
	Compile(expr string) (Predicate, error)
}
