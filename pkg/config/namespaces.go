package config

import (
	"fmt"

	"github.com/aretw0/threshold/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Namespaces accepts either a single name or a list of names.
type Namespaces []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Namespaces) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*n = Namespaces{value.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*n = Namespaces(list)
		return nil
	}
	return fmt.Errorf("line %d: namespaces must be a string or a list of strings", value.Line)
}

// UnmarshalTOML implements toml.Unmarshaler.
func (n *Namespaces) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		*n = Namespaces{v}
		return nil
	case []any:
		list := make(Namespaces, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("namespaces must only contain strings, got %T", item)
			}
			list = append(list, s)
		}
		*n = list
		return nil
	}
	return fmt.Errorf("namespaces must be a string or a list of strings, got %T", data)
}

// Set converts the declaration into a domain set. A nil receiver means global.
func (n *Namespaces) Set() domain.Namespaces {
	if n == nil {
		return nil
	}
	return domain.NS(*n...)
}
