package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// productJSON is the stored shape of a product: the subtype tags the data payload
type productJSON struct {
	ID      string          `json:"id"`
	Type    ProductType     `json:"type"`
	SubType SubType         `json:"subType"`
	Data    json.RawMessage `json:"data"`
	Summary string          `json:"summary"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	if p.Data == nil {
		return nil, fmt.Errorf("product %s: %w", p.ID, ErrUnknownSubType)
	}
	data, err := json.Marshal(p.Data)
	if err != nil {
		return nil, fmt.Errorf("encode %s data: %w", p.SubType(), err)
	}
	return json.Marshal(productJSON{
		ID:      p.ID,
		Type:    p.SubType().Category(),
		SubType: p.SubType(),
		Data:    data,
		Summary: p.Summary,
	})
}

// UnmarshalJSON decodes a product, filling fields missing from data with the
// subtype defaults. The summary is always recomputed, never trusted.
func (p *Product) UnmarshalJSON(b []byte) error {
	var raw productJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	st, err := ParseSubType(string(raw.SubType))
	if err != nil {
		return err
	}
	data, err := decodeProductData(st, func(v any) error {
		if len(raw.Data) == 0 || string(raw.Data) == "null" {
			return nil
		}
		return json.Unmarshal(raw.Data, v)
	})
	if err != nil {
		return fmt.Errorf("decode %s data: %w", st, err)
	}
	*p = restoreProduct(raw.ID, data)
	return nil
}

// productYAML is the plan file shape of a product
type productYAML struct {
	ID      string      `yaml:"id,omitempty"`
	SubType SubType     `yaml:"sub_type"`
	Data    ProductData `yaml:"data"`
}

func (p Product) MarshalYAML() (any, error) {
	if p.Data == nil {
		return nil, fmt.Errorf("product %s: %w", p.ID, ErrUnknownSubType)
	}
	return productYAML{ID: p.ID, SubType: p.SubType(), Data: p.Data}, nil
}

func (p *Product) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ID      string    `yaml:"id"`
		SubType string    `yaml:"sub_type"`
		Data    yaml.Node `yaml:"data"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	st, err := ParseSubType(raw.SubType)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	data, err := decodeProductData(st, func(v any) error {
		if raw.Data.Kind == 0 {
			return nil
		}
		return raw.Data.Decode(v)
	})
	if err != nil {
		return fmt.Errorf("line %d: decode %s data: %w", value.Line, st, err)
	}
	*p = restoreProduct(raw.ID, data)
	return nil
}

// restoreProduct rebuilds a decoded product, generating an id when absent
func restoreProduct(id string, data ProductData) Product {
	if id == "" {
		id = uuid.NewString()
	}
	return Product{
		ID:      id,
		Type:    data.SubType().Category(),
		Data:    data,
		Summary: data.Summary(),
	}
}

// decodeProductData decodes into the subtype's defaults so absent fields keep them
func decodeProductData(st SubType, decode func(any) error) (ProductData, error) {
	switch st {
	case SubTypeFunds:
		return decodeInto(DefaultFunds(), decode)
	case SubTypeMPF:
		return decodeInto(DefaultMPF(), decode)
	case SubTypeSavingPlans:
		return decodeInto(DefaultSavingPlan(), decode)
	case SubTypeBank:
		return decodeInto(DefaultBank(), decode)
	case SubTypeAnnuity:
		return decodeInto(DefaultAnnuity(), decode)
	case SubTypeOwnLiving:
		return decodeInto(DefaultOwnLiving(), decode)
	case SubTypeRental:
		return decodeInto(DefaultRental(), decode)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSubType, st)
}

func decodeInto[T ProductData](data T, decode func(any) error) (ProductData, error) {
	if err := decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}

// EncodeSession renders a session as JSON
func EncodeSession(s PlanningSession) ([]byte, error) {
	return json.Marshal(s.clone())
}

// DecodeSession parses a session from JSON. Missing assumptions keep their defaults.
func DecodeSession(b []byte) (PlanningSession, error) {
	s := NewSession("")
	if err := json.Unmarshal(b, &s); err != nil {
		return PlanningSession{}, fmt.Errorf("decode session: %w", err)
	}
	return s.clone(), nil
}
