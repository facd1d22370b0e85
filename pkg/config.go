package pkg

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FilterOption is the on-disk form of a Filter plus the exclude-file
// override; JSON and YAML are both accepted.
type FilterOption struct {
	Pid                int    `json:"pid" yaml:"pid"`
	IncludeChildren    bool   `json:"include_children" yaml:"include_children"`
	UID                int    `json:"uid" yaml:"uid"`
	FilterByUser       bool   `json:"filter_by_user" yaml:"filter_by_user"`
	ExcludeInteractive bool   `json:"exclude_interactive" yaml:"exclude_interactive"`
	ExcludeFile        string `json:"exclude_file" yaml:"exclude_file"`
}

func NewFilterOption() *FilterOption {
	return &FilterOption{
		UID: -1,
	}
}

func LoadFilterOption(path string) (*FilterOption, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	option := NewFilterOption()
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		err = yaml.Unmarshal(data, option)
	} else {
		err = json.Unmarshal(data, option)
	}
	if err != nil {
		return nil, err
	}
	return option, nil
}

// Filter builds the immutable iteration filter.
func (c *FilterOption) Filter() *Filter {
	return &Filter{
		Pid:                c.Pid,
		IncludeChildren:    c.IncludeChildren,
		FilterByUser:       c.FilterByUser,
		UID:                c.UID,
		ExcludeInteractive: c.ExcludeInteractive,
	}
}

func (c *FilterOption) WriteTo(path string) {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.Marshal(c)
	}
	if err != nil {
		panic(err)
	}

	err = os.WriteFile(path, data, os.ModePerm)
	if err != nil {
		panic(err)
	}
}
