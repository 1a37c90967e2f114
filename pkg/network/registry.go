package network

import (
	"fmt"
	"github.com/txsociety/klever-sdk/pkg/core"
)

// Endpoints are the service URLs of one network. Unused endpoints stay empty,
// a record never carries placeholder values.
type Endpoints struct {
	API      string `json:"api,omitempty" yaml:"api,omitempty"`
	Node     string `json:"node,omitempty" yaml:"node,omitempty"`
	WS       string `json:"ws,omitempty" yaml:"ws,omitempty"`
	Explorer string `json:"explorer,omitempty" yaml:"explorer,omitempty"`
}

type Currency struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint32 `json:"decimals" yaml:"decimals"`
}

// Record describes one network. Records are immutable once resolved and
// identified by Name.
type Record struct {
	Name           string    `json:"name" yaml:"name"`
	ChainID        uint32    `json:"chainId" yaml:"chainId"`
	Endpoints      Endpoints `json:"endpoints" yaml:"endpoints"`
	IsTestnet      bool      `json:"isTestnet" yaml:"isTestnet"`
	NativeCurrency Currency  `json:"nativeCurrency" yaml:"nativeCurrency"`
}

// Custom is the shorthand configuration for an ad-hoc network. The single URL
// serves as both API and node endpoint.
type Custom struct {
	URL     string
	ChainID uint32
}

func nativeKLV() Currency {
	return Currency{Name: "Klever", Symbol: core.NativeAssetID, Decimals: 6}
}

var builtins = []*Record{
	{
		Name:    "mainnet",
		ChainID: 108,
		Endpoints: Endpoints{
			API:      "https://api.mainnet.klever.org",
			Node:     "https://node.mainnet.klever.org",
			WS:       "wss://api.mainnet.klever.org/socket",
			Explorer: "https://kleverscan.org",
		},
		IsTestnet:      false,
		NativeCurrency: nativeKLV(),
	},
	{
		Name:    "testnet",
		ChainID: 109,
		Endpoints: Endpoints{
			API:      "https://api.testnet.klever.org",
			Node:     "https://node.testnet.klever.org",
			WS:       "wss://api.testnet.klever.org/socket",
			Explorer: "https://testnet.kleverscan.org",
		},
		IsTestnet:      true,
		NativeCurrency: nativeKLV(),
	},
	{
		Name:    "devnet",
		ChainID: 110,
		Endpoints: Endpoints{
			API:      "https://api.devnet.klever.org",
			Node:     "https://node.devnet.klever.org",
			WS:       "wss://api.devnet.klever.org/socket",
			Explorer: "https://devnet.kleverscan.org",
		},
		IsTestnet:      true,
		NativeCurrency: nativeKLV(),
	},
	{
		Name:    "local",
		ChainID: 10001,
		Endpoints: Endpoints{
			API:  "http://localhost:8701",
			Node: "http://localhost:8801",
		},
		IsTestnet:      true,
		NativeCurrency: nativeKLV(),
	},
}

// Registry maps network identifiers to endpoint sets and chain ids.
type Registry struct {
	networks map[string]*Record
	order    []*Record
}

func NewRegistry() *Registry {
	r := &Registry{networks: make(map[string]*Record, len(builtins))}
	for _, rec := range builtins {
		r.networks[rec.Name] = rec
		r.order = append(r.order, rec)
	}
	return r
}

// Register adds a named record. Known names resolve to the same record on
// every call, re-registering a name replaces it.
func (r *Registry) Register(rec *Record) {
	if _, ok := r.networks[rec.Name]; !ok {
		r.order = append(r.order, rec)
	} else {
		for i, existing := range r.order {
			if existing.Name == rec.Name {
				r.order[i] = rec
				break
			}
		}
	}
	r.networks[rec.Name] = rec
}

// Resolve turns a network name, a Custom shorthand, or a full record into a
// canonical record. Unknown names fail with UnknownNetworkError.
func (r *Registry) Resolve(input any) (*Record, error) {
	switch v := input.(type) {
	case string:
		rec, ok := r.networks[v]
		if !ok {
			return nil, &core.UnknownNetworkError{Name: v}
		}
		return rec, nil
	case Custom:
		return NewCustomRecord(v), nil
	case *Custom:
		return NewCustomRecord(*v), nil
	case *Record:
		return v, nil
	case Record:
		return &v, nil
	default:
		return nil, fmt.Errorf("unsupported network input type %T", input)
	}
}

// ByChainID scans the known records. Absence is not an error.
func (r *Registry) ByChainID(chainID uint32) (*Record, bool) {
	for _, rec := range r.order {
		if rec.ChainID == chainID {
			return rec, true
		}
	}
	return nil, false
}

// NewCustomRecord synthesizes a record from the shorthand form. The identity
// is "custom-<chainId>" and custom networks are assumed to be test networks.
func NewCustomRecord(c Custom) *Record {
	return &Record{
		Name:    fmt.Sprintf("custom-%d", c.ChainID),
		ChainID: c.ChainID,
		Endpoints: Endpoints{
			API:  c.URL,
			Node: c.URL,
		},
		IsTestnet:      true,
		NativeCurrency: nativeKLV(),
	}
}

// CreateCustomNetwork builds a fully described custom record. Endpoint fields
// that were not supplied stay empty. IsTestnet defaults to true unless the
// caller flips it afterwards through a full record.
func CreateCustomNetwork(name string, chainID uint32, endpoints Endpoints) *Record {
	if len(name) == 0 {
		name = fmt.Sprintf("custom-%d", chainID)
	}
	return &Record{
		Name:           name,
		ChainID:        chainID,
		Endpoints:      endpoints,
		IsTestnet:      true,
		NativeCurrency: nativeKLV(),
	}
}
