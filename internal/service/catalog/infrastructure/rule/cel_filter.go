// internal/service/catalog/infrastructure/rule/cel_filter.go
package rule

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"lessonhub/internal/pkg/apperr"
	"lessonhub/internal/service/catalog/domain"
)

// CELFilterEngine 是 domain.FilterEngine 的实现, 使用 CEL 表达式过滤课程,
// 例如 `location == "London" && price < 100.0`。
type CELFilterEngine struct {
	env *cel.Env
}

// NewCELFilterEngine 声明表达式中可以引用的课程字段。
func NewCELFilterEngine() (*CELFilterEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("title", cel.StringType),
		cel.Variable("location", cel.StringType),
		cel.Variable("description", cel.StringType),
		cel.Variable("price", cel.DoubleType),
		cel.Variable("availableCapacity", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cel env: %w", err)
	}
	return &CELFilterEngine{env: env}, nil
}

func (e *CELFilterEngine) Compile(expr string) (domain.Predicate, error) {
	ast, iss := e.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, apperr.Validation("invalid filter: %s", iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, apperr.Validation("invalid filter: expression must evaluate to bool, got %s", ast.OutputType())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, apperr.Validation("invalid filter: %s", err)
	}

	return func(l domain.Lesson) (bool, error) {
		out, _, err := prg.Eval(map[string]any{
			"id":                l.ID,
			"title":             l.Title,
			"location":          l.Location,
			"description":       l.Description,
			"price":             l.Price,
			"availableCapacity": int64(l.AvailableCapacity),
		})
		if err != nil {
			return false, apperr.Validation("filter evaluation failed on lesson %s: %s", l.ID, err)
		}
		matched, ok := out.Value().(bool)
		if !ok {
			return false, apperr.Validation("filter returned %T, want bool", out.Value())
		}
		return matched, nil
	}, nil
}
