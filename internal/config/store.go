// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/sirseerhq/repo-tweet/internal/state"
)

const markKey = "last_announced_sequence"

// CredentialStore keeps the mark under sink.last_announced_sequence in the
// credential file itself. Saving rewrites only that key; every other value
// is carried over from the file as it is on disk, so environment overrides
// are never written back.
type CredentialStore struct {
	cfg *Config
}

var _ state.Store = (*CredentialStore)(nil)

// NewCredentialStore returns a store backed by the file cfg was loaded from.
func NewCredentialStore(cfg *Config) *CredentialStore {
	return &CredentialStore{cfg: cfg}
}

// LoadMark implements state.Store.
func (s *CredentialStore) LoadMark() (state.Mark, error) {
	if s.cfg.Sink.LastAnnouncedSequence == nil {
		return state.Mark{}, nil
	}
	return state.Mark{Sequence: *s.cfg.Sink.LastAnnouncedSequence, Known: true}, nil
}

// SaveMark implements state.Store.
func (s *CredentialStore) SaveMark(sequence int) error {
	path := s.cfg.path
	if path == "" {
		return fmt.Errorf("configuration was not loaded from a file")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat credential file: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read credential file: %w", err)
	}

	var out []byte
	switch s.cfg.format {
	case FormatTOML:
		out, err = setTOMLMark(data, sequence)
	default:
		out, err = setYAMLMark(data, sequence)
	}
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", path, err)
	}

	if err := state.WriteFileAtomic(path, out, info.Mode().Perm()); err != nil {
		return err
	}

	s.cfg.Sink.LastAnnouncedSequence = &sequence
	return nil
}

// setYAMLMark edits the document tree so comments and key order survive.
func setYAMLMark(data []byte, sequence int) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level is not a mapping")
	}

	root := doc.Content[0]
	sink := mappingValue(root, "sink")
	switch {
	case sink == nil:
		sink = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		appendPair(root, "sink", sink)
	case sink.Kind == yaml.ScalarNode && sink.Tag == "!!null":
		sink.Kind = yaml.MappingNode
		sink.Tag = "!!map"
		sink.Value = ""
	}
	if sink.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("sink is not a mapping")
	}

	value := strconv.Itoa(sequence)
	if node := mappingValue(sink, markKey); node != nil {
		node.Kind = yaml.ScalarNode
		node.Tag = "!!int"
		node.Style = 0
		node.Value = value
		node.Content = nil
	} else {
		appendPair(sink, markKey, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: value})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

// setTOMLMark round-trips through a generic table. TOML comments are lost.
func setTOMLMark(data []byte, sequence int) ([]byte, error) {
	doc := map[string]interface{}{}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, err
	}

	sink, ok := doc["sink"].(map[string]interface{})
	if !ok {
		if _, exists := doc["sink"]; exists {
			return nil, fmt.Errorf("sink is not a table")
		}
		sink = map[string]interface{}{}
		doc["sink"] = sink
	}
	sink[markKey] = int64(sequence)

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
