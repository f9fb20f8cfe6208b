// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/superb-owl/models"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type DemoOwner struct {
	Initials    string `yaml:"initials"`
	DisplayName string `yaml:"displayName"`
	BgColor     string `yaml:"bgColor"`
	TextColor   string `yaml:"textColor"`
}

// Defaults holds the board, claim and demo values loaded from defaults.yaml.
type Defaults struct {
	Board struct {
		TopTeamLabel  string `yaml:"topTeamLabel"`
		SideTeamLabel string `yaml:"sideTeamLabel"`
	} `yaml:"board"`
	Theme       models.ThemeDefaults `yaml:"theme"`
	ClaimColors struct {
		Bg   string `yaml:"bg"`
		Text string `yaml:"text"`
	} `yaml:"claimColors"`
	DemoRoster []DemoOwner `yaml:"demoRoster"`
}

// LoadDefaults parses the embedded defaults file.
func LoadDefaults() (Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(defaultsYAML, &d); err != nil {
		return Defaults{}, fmt.Errorf("failed to parse defaults: %w", err)
	}
	if len(d.DemoRoster) > models.MaxOwners {
		return Defaults{}, fmt.Errorf("demo roster has %d owners, max %d", len(d.DemoRoster), models.MaxOwners)
	}
	return d, nil
}

func (d Defaults) demoInitials() []string {
	initials := make([]string, len(d.DemoRoster))
	for i, o := range d.DemoRoster {
		initials[i] = o.Initials
	}
	return initials
}
