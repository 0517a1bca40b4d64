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

// Built-in S-NPP configuration. Base time is the common JPSS mission base
// time from CDFCB-X Table 3.5.12.-1.
const nppConfig = `
origin: ssec
mode: dev
distributor: ssec
satellite:
  id: npp
  short_name: NPP
  base_time: 1698019234000000
  mission: S-NPP/JPSS
products:
  - product_id: RVIRS
    short_name: VIIRS-SCIENCE-RDR
    type_id: SCIENCE
    sensor: VIIRS
    gran_len: 85350000
    apids:
      - {num: 800, name: M04, max_expected: 24}
      - {num: 801, name: M05, max_expected: 24}
      - {num: 802, name: M03, max_expected: 24}
      - {num: 803, name: M02, max_expected: 24}
      - {num: 804, name: M01, max_expected: 24}
      - {num: 805, name: M06, max_expected: 24}
      - {num: 806, name: M07, max_expected: 408}
      - {num: 821, name: CAL, max_expected: 24}
      - {num: 826, name: ENG, max_expected: 24}
  - product_id: RCRIS
    short_name: CRIS-SCIENCE-RDR
    type_id: SCIENCE
    sensor: CrIS
    gran_len: 31997000
    apids:
      - {num: 1289, name: EIGHT_S_SCI, max_expected: 5}
      - {num: 1290, name: ENG, max_expected: 1}
  - product_id: RATMS
    short_name: ATMS-SCIENCE-RDR
    type_id: SCIENCE
    sensor: ATMS
    gran_len: 31997000
    apids:
      - {num: 515, name: CAL, max_expected: 5}
      - {num: 528, name: SCI, max_expected: 1249}
      - {num: 530, name: ENG, max_expected: 13}
      - {num: 531, name: HS, max_expected: 13}
  - product_id: RONPS
    short_name: OMPS-NPSCIENCE-RDR
    type_id: SCIENCE
    sensor: OMPS
    gran_len: 37405000
    apids:
      - {num: 561, name: NP, max_expected: 21}
  - product_id: RNSCA
    short_name: SPACECRAFT-DIARY-RDR
    type_id: DIARY
    sensor: SPACECRAFT
    gran_len: 20000000
    apids:
      - {num: 0, name: CRITICAL, max_expected: 21}
      - {num: 8, name: ADCS_HKH, max_expected: 21}
      - {num: 11, name: DIARY, max_expected: 21}
rdrs:
  - product: RVIRS
    packed_with: [RNSCA]
  - product: RCRIS
    packed_with: [RNSCA]
  - product: RATMS
    packed_with: [RNSCA]
  - product: RONPS
    packed_with: [RNSCA]
  - product: RNSCA
`

// DefaultContent returns the built-in YAML configuration for a satellite
// id, or the empty string if the satellite is unknown.
func DefaultContent(satid string) string {
	switch satid {
	case "npp":
		return nppConfig
	default:
		return ""
	}
}
