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

package rdr

import (
	"strings"
	"testing"
)

func TestGranuleID(t *testing.T) {
	id := GranuleID("npp", 1000000)
	if !strings.HasPrefix(id, "NPP") {
		t.Errorf("expected NPP prefix, got %s", id)
	}
	if id != "NPP0000000989680" {
		t.Errorf("expected NPP0000000989680, got %s", id)
	}
}

func TestReferenceID(t *testing.T) {
	id := GranuleID("npp", 1000000)
	ref := ReferenceID("OMPS-NPSCIENCE-RDR", id, baseIET)
	if !strings.HasPrefix(ref, "OMPS-NPSCIENCE-RDR_"+id+"_") {
		t.Errorf("unexpected reference id %s", ref)
	}
}

func TestFilename(t *testing.T) {
	meta := &FileMeta{SatID: "npp", Origin: "ssecsat", Mode: "dev", Created: baseIET}
	products := []OutProduct{
		{ShortName: "OMPS-NPSCIENCE-RDR", Granules: []OutGranule{
			{BeginIET: baseIET, EndIET: baseIET + onpsGranLen},
		}},
	}
	name := Filename(meta, products, []string{"RONPS", "RNSCA"})
	if !strings.HasPrefix(name, "RNSCA-RONPS_npp_d") {
		t.Errorf("expected sorted product prefix, got %s", name)
	}
	if !strings.HasSuffix(name, "_sseu_dev.h5") {
		t.Errorf("expected origin and mode suffix, got %s", name)
	}
	if !strings.Contains(name, "_d20111023_t0000000_e0000374_") {
		t.Errorf("unexpected time fields in %s", name)
	}
}
