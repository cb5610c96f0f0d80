package domain

import (
	"github.com/mrz1836/configrepo/internal/constants"
)

// LockBehavior controls whether a pipeline runs one instance at a time.
type LockBehavior string

// Lock behaviours.
const (
	LockBehaviorLockOnFailure      LockBehavior = constants.LockOnFailure
	LockBehaviorUnlockWhenFinished LockBehavior = constants.UnlockWhenFinished
	LockBehaviorNone               LockBehavior = constants.LockNone
)

// String returns the string representation of the LockBehavior.
func (l LockBehavior) String() string {
	return string(l)
}

// IsValid reports whether l is a known lock behaviour.
func (l LockBehavior) IsValid() bool {
	switch l {
	case LockBehaviorLockOnFailure, LockBehaviorUnlockWhenFinished, LockBehaviorNone:
		return true
	}
	return false
}

// TrackingTool links commit messages to an issue tracker.
type TrackingTool struct {
	Link  string
	Regex string
}

// Timer schedules a pipeline with a cron spec.
type Timer struct {
	Spec          string
	OnlyOnChanges bool
}

// Param is a pipeline parameter.
type Param struct {
	Name  string
	Value string
}

// Pipeline is an ordered list of stages fed by an ordered list of materials.
// A pipeline either owns stages or references a template, never both.
type Pipeline struct {
	Name          CaseInsensitiveString
	LabelTemplate string
	LockBehavior  LockBehavior
	TrackingTool  *TrackingTool
	Timer         *Timer
	Variables     EnvironmentVariables
	Params        []Param
	Materials     []Material
	Stages        []*Stage

	// TemplateName is blank unless the stages come from a template.
	TemplateName CaseInsensitiveString
}

// IsEmpty reports whether the pipeline owns no stages.
func (p *Pipeline) IsEmpty() bool {
	return len(p.Stages) == 0
}

// HasTemplate reports whether the pipeline references a template.
func (p *Pipeline) HasTemplate() bool {
	return !p.TemplateName.IsBlank()
}

// IsLockableOnFailure reports whether a failed run keeps the pipeline locked.
func (p *Pipeline) IsLockableOnFailure() bool {
	return p.LockBehavior == LockBehaviorLockOnFailure
}

// IsLockable reports whether the pipeline runs one instance at a time.
func (p *Pipeline) IsLockable() bool {
	return p.LockBehavior == LockBehaviorLockOnFailure || p.LockBehavior == LockBehaviorUnlockWhenFinished
}

// Stage returns the stage named name, or nil.
func (p *Pipeline) Stage(name string) *Stage {
	for _, s := range p.Stages {
		if s.Name.EqualString(name) {
			return s
		}
	}
	return nil
}

// Param returns the value of parameter name and whether it is declared.
func (p *Pipeline) Param(name string) (string, bool) {
	for _, prm := range p.Params {
		if prm.Name == name {
			return prm.Value, true
		}
	}
	return "", false
}

// PipelineGroup is a named, insertion-ordered list of pipelines.
type PipelineGroup struct {
	Name      string
	Pipelines []*Pipeline
}

// Find returns the pipeline named name, or nil.
func (g *PipelineGroup) Find(name string) *Pipeline {
	for _, p := range g.Pipelines {
		if p.Name.EqualString(name) {
			return p
		}
	}
	return nil
}

// Environment groups agents and pipelines that share variables.
type Environment struct {
	Name      CaseInsensitiveString
	Variables EnvironmentVariables
	Agents    []string
	Pipelines []CaseInsensitiveString
}

// Contains reports whether pipeline belongs to the environment.
func (e *Environment) Contains(pipeline string) bool {
	for _, p := range e.Pipelines {
		if p.EqualString(pipeline) {
			return true
		}
	}
	return false
}

// HasAgent reports whether the agent with uuid belongs to the environment.
func (e *Environment) HasAgent(uuid string) bool {
	for _, a := range e.Agents {
		if a == uuid {
			return true
		}
	}
	return false
}

// HasVariable reports whether a variable named name is declared.
func (e *Environment) HasVariable(name string) bool {
	return e.Variables.Has(name)
}

// PartialConfig is the contribution one config repo makes to the server configuration.
type PartialConfig struct {
	Groups       []*PipelineGroup
	Environments []*Environment
}

// Group returns the group named name, or nil.
func (c *PartialConfig) Group(name string) *PipelineGroup {
	for _, g := range c.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// PipelineCount returns the number of pipelines across all groups.
func (c *PartialConfig) PipelineCount() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Pipelines)
	}
	return n
}

// Pipelines returns every pipeline in group order.
func (c *PartialConfig) Pipelines() []*Pipeline {
	out := make([]*Pipeline, 0, c.PipelineCount())
	for _, g := range c.Groups {
		out = append(out, g.Pipelines...)
	}
	return out
}
