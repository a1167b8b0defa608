package application

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"lessonhub/internal/service/catalog/domain"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Lessons []domain.Lesson `yaml:"lessons"`
}

// SampleCatalog 解析内置的示例课程目录。
func SampleCatalog() ([]domain.Lesson, error) {
	return parseCatalog(seedYAML)
}

func parseCatalog(data []byte) ([]domain.Lesson, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Lessons))
	for i := range f.Lessons {
		if err := f.Lessons[i].Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[f.Lessons[i].ID]; dup {
			return nil, fmt.Errorf("seed catalog: duplicate lesson id %s", f.Lessons[i].ID)
		}
		seen[f.Lessons[i].ID] = struct{}{}
	}
	return f.Lessons, nil
}
