// Package types provides type definitions for structured data used throughout ppt-architect.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Outline is the structured description of a deck: a title plus slides in presentation order.
type Outline struct {
	Title  string         `json:"title" validate:"required"`
	Slides []SlideContent `json:"slides" validate:"dive"`
}

// SlideContent describes a single slide.
type SlideContent struct {
	Title        string     `json:"title" validate:"max=200"`
	BulletPoints []string   `json:"bullet_points"`
	Layout       Layout     `json:"layout"`
	Icon         string     `json:"icon,omitempty"`
	DataPoints   DataPoints `json:"data_points,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// Validate checks the outline's struct constraints.
func (o *Outline) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid outline: %w", err)
	}
	return nil
}

// UnmarshalJSON normalizes the layout tag while decoding.
func (s *SlideContent) UnmarshalJSON(data []byte) error {
	type alias SlideContent
	aux := struct {
		*alias
		Layout string `json:"layout"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Layout = ParseLayout(aux.Layout)
	return nil
}

// DataPoint is one chart category. It is either a Scalar or a Series.
type DataPoint interface {
	PointLabel() string
	isDataPoint()
}

// Scalar is a single-series entry. Value is nil when the producer omitted it.
type Scalar struct {
	Label string
	Value *float64
}

// PointLabel returns the category label.
func (s Scalar) PointLabel() string { return s.Label }
func (Scalar) isDataPoint()         {}

// Series is a multi-series entry mapping series name to value.
type Series struct {
	Label  string
	Series map[string]float64
}

// PointLabel returns the category label.
func (s Series) PointLabel() string { return s.Label }
func (Series) isDataPoint()         {}

// DataPoints is an ordered list of heterogeneous data points.
type DataPoints []DataPoint

// wireDataPoint is the JSON shape shared by both variants.
type wireDataPoint struct {
	Label  string             `json:"label,omitempty"`
	Value  *float64           `json:"value,omitempty"`
	Series map[string]float64 `json:"series,omitempty"`
}

// HasSeries reports whether any entry is a Series.
func (dp DataPoints) HasSeries() bool {
	for _, p := range dp {
		if _, ok := p.(Series); ok {
			return true
		}
	}
	return false
}

// UnmarshalJSON decodes each entry into Series when it carries a series map, Scalar otherwise.
func (dp *DataPoints) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*dp = nil
		return nil
	}

	var raw []wireDataPoint
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode data_points: %w", err)
	}

	points := make(DataPoints, 0, len(raw))
	for _, r := range raw {
		if r.Series != nil {
			points = append(points, Series{Label: r.Label, Series: r.Series})
			continue
		}
		points = append(points, Scalar{Label: r.Label, Value: r.Value})
	}
	*dp = points
	return nil
}

// MarshalJSON encodes entries back to the wire shape.
func (dp DataPoints) MarshalJSON() ([]byte, error) {
	if dp == nil {
		return []byte("null"), nil
	}
	out := make([]wireDataPoint, 0, len(dp))
	for _, p := range dp {
		switch v := p.(type) {
		case Scalar:
			out = append(out, wireDataPoint{Label: v.Label, Value: v.Value})
		case Series:
			out = append(out, wireDataPoint{Label: v.Label, Series: v.Series})
		}
	}
	return json.Marshal(out)
}

// Float returns a pointer to v, for building Scalar values.
func Float(v float64) *float64 { return &v }
