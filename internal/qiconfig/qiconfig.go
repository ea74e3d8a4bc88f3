// Package qiconfig loads the YAML manifests that drive static type
// registration and the demo gateway, the same declarative-config role
// funvibe-funxy's ext.Config plays for its own dependency manifest
// (internal/ext/config.go), rebuilt here for qitype's domain.
package qiconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/relaymesh/dynatype/internal/qitype"
	"github.com/relaymesh/dynatype/internal/signature"
)

// Manifest is the top-level "types.yaml" document: a flat list of
// named types to pre-register on a Registry before any RPC traffic
// arrives, so that signature_of/type_from_signature never race a
// late registration for well-known application types.
type Manifest struct {
	// Types lists the named type registrations to apply, in order.
	Types []TypeEntry `yaml:"types"`
}

// TypeEntry declares one named type by its canonical signature string.
type TypeEntry struct {
	// Name is the TypeInfo identity the type is registered under.
	Name string `yaml:"name"`

	// Signature is the wire signature materialized via
	// signature.TypeFromSignatureString to build the descriptor.
	Signature string `yaml:"signature"`
}

// Load reads and parses a Manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("qiconfig: reading %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("qiconfig: parsing %s: %w", path, err)
	}
	return &m, nil
}

// Apply materializes every entry's signature, stopping at the first
// failure, and only then registers each one on reg under its declared
// name, so a malformed manifest never partially applies.
func (m *Manifest) Apply(reg *qitype.Registry) error {
	types := make([]qitype.Type, len(m.Types))
	for i, entry := range m.Types {
		t, err := signature.TypeFromSignatureString(reg, entry.Signature)
		if err != nil {
			return fmt.Errorf("qiconfig: registering %q: %w", entry.Name, err)
		}
		types[i] = t
	}
	for i, entry := range m.Types {
		reg.Register(qitype.NamedTypeInfo(entry.Name), types[i])
	}
	return nil
}

// GatewayConfig is the "gateway.yaml" document consumed by
// cmd/dynatypectl: where to listen, and which
// declared methods the demo RPC service exposes.
type GatewayConfig struct {
	// Listen is the gRPC listen address, e.g. "127.0.0.1:9559".
	Listen string `yaml:"listen"`

	// Methods lists the RPC methods the gateway advertises, keyed by
	// name, each giving the parameter tuple and return signatures.
	Methods []MethodEntry `yaml:"methods"`
}

// MethodEntry describes one RPC method's wire shape in terms of the
// Signature grammar, independent of any specific protobuf message.
type MethodEntry struct {
	Name       string `yaml:"name"`
	ParamsSig  string `yaml:"params"`
	ReturnsSig string `yaml:"returns"`
}

// LoadGatewayConfig reads and parses a GatewayConfig from path.
func LoadGatewayConfig(path string) (*GatewayConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("qiconfig: reading %s: %w", path, err)
	}
	var c GatewayConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("qiconfig: parsing %s: %w", path, err)
	}
	return &c, nil
}
