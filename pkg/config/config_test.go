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

import "testing"

func TestDefaultNpp(t *testing.T) {
	cfg := Default("npp")
	if cfg == nil {
		t.Fatal("no built-in npp config")
	}
	if cfg.Satellite.BaseTime != 1698019234000000 {
		t.Errorf("expected base time 1698019234000000, got %d", cfg.Satellite.BaseTime)
	}
	p := cfg.GetProduct("RONPS")
	if p == nil {
		t.Fatal("RONPS not in npp config")
	}
	if p.GranLen != 37405000 {
		t.Errorf("expected RONPS gran_len 37405000, got %d", p.GranLen)
	}
	if a := p.GetApid(561); a == nil || a.Name != "NP" {
		t.Errorf("expected apid 561 NP, got %+v", a)
	}
	r := cfg.GetRdr("RVIRS")
	if r == nil || len(r.PackedWith) != 1 || r.PackedWith[0] != "RNSCA" {
		t.Errorf("expected RVIRS packed with RNSCA, got %+v", r)
	}
}

func TestDefaultUnknown(t *testing.T) {
	if cfg := Default("mto"); cfg != nil {
		t.Errorf("expected nil for unknown satellite, got %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	// The YAML parser accepts JSON since YAML is converted through JSON
	data := `{
		"origin": "nasa", "mode": "ops", "distributor": "arch",
		"satellite": {"id": "npp", "short_name": "NPP", "base_time": 1698019234000000, "mission": "S-NPP/JPSS"},
		"products": [
			{"product_id": "RNSCA", "short_name": "SPACECRAFT-DIARY-RDR", "type_id": "DIARY",
			 "gran_len": 20000000, "apids": [{"num": 11, "name": "DIARY", "max_expected": 21}]}
		],
		"rdrs": [{"product": "RNSCA"}]
	}`
	cfg, err := Load([]byte(data))
	if err != nil {
		t.Fatalf("loading json config: %s", err)
	}
	if cfg.Origin != "nasa" {
		t.Errorf("expected origin nasa, got %s", cfg.Origin)
	}
	if cfg.GetProduct("RNSCA") == nil {
		t.Error("RNSCA missing after json load")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"unknown packed product", func(c *Config) { c.Rdrs[0].PackedWith = []string{"RNOPE"} }},
		{"unknown rdr product", func(c *Config) { c.Rdrs[0].Product = "RNOPE" }},
		{"zero gran_len", func(c *Config) { c.Products[0].GranLen = 0 }},
		{"apid out of range", func(c *Config) { c.Products[0].Apids[0].Num = 2048 }},
	}
	for _, tt := range tests {
		cfg := Default("npp")
		tt.mod(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", tt.name)
			continue
		}
		if !IsInvalid(err) {
			t.Errorf("%s: expected ErrInvalid, got %T", tt.name, err)
		}
	}
}
