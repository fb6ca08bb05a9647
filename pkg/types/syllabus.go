// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// WeekTopic is one (week number, topic) declaration of a syllabus.
type WeekTopic struct {
	Week  int    `json:"week" yaml:"week"`
	Topic string `json:"topic" yaml:"topic"`
}

// Syllabus is the ingress record for one Resource: its metadata and the
// ordered list of topics taught per week. Two entries may share a week
// number; they then hang off the same Week node.
type Syllabus struct {
	Title   string      `json:"title" yaml:"title"`
	Subject string      `json:"subject" yaml:"subject"`
	Term    string      `json:"term" yaml:"term"`
	Class   string      `json:"class" yaml:"class"`
	Weeks   []WeekTopic `json:"weeks" yaml:"weeks"`

	// Source records where the syllabus was read from, for error reports.
	Source string `json:"-" yaml:"-"`
}
