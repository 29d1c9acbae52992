package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// settingsFile settings.yml のトップレベル
type settingsFile struct {
	Settings settings `yaml:"settings"`
}

// settings レポートの設定項目
type settings struct {
	CalendarID        []calendarEntry `yaml:"calendar_id"`
	Keywords          []string        `yaml:"keywords"`
	ExcludeKeywords   []string        `yaml:"exclude_keywords"`
	Period            string          `yaml:"period"`
	Timezone          string          `yaml:"timezone"`
	Date              string          `yaml:"date"`
	IncludeWeekends   *bool           `yaml:"include_weekends"`
	SkipInvalidEvents *bool           `yaml:"skip_invalid_events"`
	Format            string          `yaml:"format"`
}

// calendarEntry カレンダーIDの文字列、または {id, name} のどちらでも書ける
type calendarEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

func (e *calendarEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.ID = node.Value
		return nil
	}

	var v struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	}
	if err := node.Decode(&v); err != nil {
		return err
	}
	e.ID = v.ID
	e.Name = v.Name
	return nil
}

// parseSettings settings.yml の内容を解析
func parseSettings(data []byte) (settings, error) {
	var f settingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return settings{}, fmt.Errorf("設定ファイルのYAML解析に失敗しました: %w", err)
	}
	return f.Settings, nil
}
