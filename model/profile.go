package model

import "fmt"

type Technology struct {
	Name  string
	Badge string
}

// LearningItem reason is part of the backend record but is not rendered
type LearningItem struct {
	Name   string
	Badge  string
	Reason string
}

type Project struct {
	Name     string
	Username string // owner handle on github
	URL      string
}

// FullName returns owner/name as used by the github API
func (p Project) FullName() string {
	return fmt.Sprintf("%s/%s", p.Username, p.Name)
}

type RepoStats struct {
	StargazerCount uint
	ForkCount      uint
}

// ProjectStats is one row of the projects table
type ProjectStats struct {
	Project
	RepoStats
}

type Footer struct {
	StatsURL          string
	TrackingWidgetURL string
	ClosingText       string
	ClosingURL        string
}

// Page contains everything needed for a single render pass
type Page struct {
	Greeting     string
	Intro        string
	Technologies []Technology
	Learning     []LearningItem
	Projects     []ProjectStats
	Footer       Footer
	GeneratedAt  string
}
