package show

import "sync"

// Scene is a named base set of channel values. The composer modulates
// on top of the base; beat-driven scene advances cycle through the list.
type Scene struct {
	Name   string           `yaml:"name"`
	Values ChannelOverrides `yaml:"values"`
}

// SceneList cycles through scenes in order, wrapping at the end. Beat
// callbacks advance it from the audio tick while the render tick reads
// it, so the index is guarded.
type SceneList struct {
	mu     sync.Mutex
	scenes []Scene
	idx    int
}

func NewSceneList(scenes []Scene) *SceneList {
	if len(scenes) == 0 {
		scenes = DefaultScenes()
	}
	return &SceneList{scenes: scenes}
}

func (l *SceneList) Current() Scene {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scenes[l.idx]
}

// Advance moves to the next scene and returns it.
func (l *SceneList) Advance() Scene {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.idx = (l.idx + 1) % len(l.scenes)
	return l.scenes[l.idx]
}

// Merged returns the scene base with the tick's overrides applied on
// top. Channels absent from both stay untouched downstream.
func (s Scene) Merged(overrides ChannelOverrides) ChannelOverrides {
	out := make(ChannelOverrides, len(s.Values)+len(overrides))
	for k, v := range s.Values {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// DefaultScenes is a small built-in rotation so a show runs without a
// show file.
func DefaultScenes() []Scene {
	return []Scene{
		{Name: "wide", Values: ChannelOverrides{ChZoom: 40, ChBoundary: 60, ChColor: 16}},
		{Name: "tight", Values: ChannelOverrides{ChZoom: 100, ChBoundary: 25, ChColor: 48}},
		{Name: "cycle", Values: ChannelOverrides{ChZoom: 70, ChBoundary: 45, ChColor: 128}},
		{Name: "chase", Values: ChannelOverrides{ChZoom: 55, ChBoundary: 35, ChColor: 224}},
	}
}
