/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package config

import (
	"errors"
	"fmt"
	"io/ioutil"

	yamlv2 "gopkg.in/yaml.v2"
	"sigs.k8s.io/yaml"
)

// SatSpec identifies the spacecraft an RDR is produced for. BaseTime is the
// mission base time in IET microseconds anchoring all granule boundaries.
type SatSpec struct {
	ID        string `json:"id"`
	ShortName string `json:"short_name"`
	BaseTime  int64  `json:"base_time"`
	Mission   string `json:"mission"`
}

type ApidSpec struct {
	Num         uint16 `json:"num"`
	Name        string `json:"name"`
	MaxExpected uint32 `json:"max_expected"`
}

// ProductSpec describes one RDR product, e.g. RVIRS/VIIRS-SCIENCE-RDR.
type ProductSpec struct {
	ProductID string     `json:"product_id"`
	ShortName string     `json:"short_name"`
	TypeID    string     `json:"type_id"`
	Sensor    string     `json:"sensor,omitempty"`
	GranLen   int64      `json:"gran_len"`
	Apids     []ApidSpec `json:"apids"`
}

func (p *ProductSpec) GetApid(num uint16) *ApidSpec {
	for i := range p.Apids {
		if p.Apids[i].Num == num {
			return &p.Apids[i]
		}
	}
	return nil
}

// RdrSpec declares one output file: a primary product and the products
// packed into the same file alongside it.
type RdrSpec struct {
	Product    string   `json:"product"`
	PackedWith []string `json:"packed_with,omitempty"`
}

type Config struct {
	Origin      string        `json:"origin"`
	Mode        string        `json:"mode"`
	Distributor string        `json:"distributor"`
	Satellite   SatSpec       `json:"satellite"`
	Products    []ProductSpec `json:"products"`
	Rdrs        []RdrSpec     `json:"rdrs"`
}

type ErrInvalid struct {
	Reason string
}

func (e ErrInvalid) Error() string {
	return "invalid config: " + e.Reason
}

func IsInvalid(err error) bool {
	var e ErrInvalid
	return errors.As(err, &e)
}

func (c *Config) Validate() error {
	ids := make(map[string]bool)
	for i := range c.Products {
		p := &c.Products[i]
		if len(p.ProductID) == 0 {
			return ErrInvalid{Reason: "product with empty product_id"}
		}
		if p.GranLen <= 0 {
			return ErrInvalid{Reason: fmt.Sprintf("product %s has gran_len %d", p.ProductID, p.GranLen)}
		}
		for _, a := range p.Apids {
			if a.Num > 2047 {
				return ErrInvalid{Reason: fmt.Sprintf("product %s apid %d out of range", p.ProductID, a.Num)}
			}
		}
		ids[p.ProductID] = true
	}
	for _, r := range c.Rdrs {
		if !ids[r.Product] {
			return ErrInvalid{Reason: fmt.Sprintf("rdr references unknown product %s", r.Product)}
		}
		for _, packed := range r.PackedWith {
			if !ids[packed] {
				return ErrInvalid{Reason: fmt.Sprintf("product %s has invalid packed product %s", r.Product, packed)}
			}
		}
	}
	return nil
}

// GetProduct returns the spec for a product id, or nil.
func (c *Config) GetProduct(id string) *ProductSpec {
	for i := range c.Products {
		if c.Products[i].ProductID == id {
			return &c.Products[i]
		}
	}
	return nil
}

// GetRdr returns the output file declaration whose primary is id, or nil.
func (c *Config) GetRdr(id string) *RdrSpec {
	for i := range c.Rdrs {
		if c.Rdrs[i].Product == id {
			return &c.Rdrs[i]
		}
	}
	return nil
}

// Load parses a config from YAML or JSON bytes. The data is converted
// through the YAML-to-JSON path so both encodings are accepted by the
// same parser.
func Load(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, ErrInvalid{Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads and parses the config at path.
func LoadFile(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Expand re-emits the parsed config as normalized YAML.
func (c *Config) Expand() ([]byte, error) {
	// Round-trip through JSON field names so the output matches the
	// accepted input schema.
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, err
	}
	var doc yamlv2.MapSlice
	if err := yamlv2.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return yamlv2.Marshal(doc)
}

// Resolve loads the config at path when given, otherwise the built-in
// config for satid.
func Resolve(path, satid string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	cfg := Default(satid)
	if cfg == nil {
		return nil, ErrInvalid{Reason: fmt.Sprintf("no built-in config for satellite %q", satid)}
	}
	return cfg, nil
}

// Default returns the built-in configuration for a satellite id, or nil
// if the satellite is unknown.
func Default(satid string) *Config {
	content := DefaultContent(satid)
	if content == "" {
		return nil
	}
	cfg, err := Load([]byte(content))
	if err != nil {
		panic("invalid built-in RDR config: " + err.Error())
	}
	return cfg
}
