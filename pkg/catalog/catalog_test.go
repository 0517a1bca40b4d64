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

package catalog

import (
	"path/filepath"
	"testing"
)

func TestPutList(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	entries := []*Entry{
		{Path: "/out/a.h5", Mission: "S-NPP/JPSS", Products: []string{"RONPS", "RNSCA"}, Granules: 3},
		{Path: "/out/b.h5", Mission: "S-NPP/JPSS", Products: []string{"RONPS"}, Granules: 1},
	}
	for _, e := range entries {
		if err := c.Put(e); err != nil {
			t.Fatal(err)
		}
	}

	got, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Path != "/out/a.h5" || got[0].Granules != 3 {
		t.Errorf("unexpected first entry: %+v", got[0])
	}
	if len(got[0].Products) != 2 || got[0].Products[1] != "RNSCA" {
		t.Errorf("unexpected products: %v", got[0].Products)
	}
}

func TestListEmpty(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	got, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty catalog, got %d entries", len(got))
	}
}

func TestPutOverwrites(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Put(&Entry{Path: "/out/a.h5", Granules: 1}); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(&Entry{Path: "/out/a.h5", Granules: 5}); err != nil {
		t.Fatal(err)
	}
	got, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Granules != 5 {
		t.Errorf("expected single overwritten entry, got %+v", got)
	}
}
