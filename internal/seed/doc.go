// Package seed loads first-boot device and variable definitions from YAML.
//
// A seed file looks like:
//
//	variables:
//	  - id: hall_light
//	    kind: bool
//	    value: false
//	devices:
//	  LightSwitch:
//	    - Name: Hall
//	      OnOffID: hall_light
//
// Seeding never overwrites: a device type is only seeded while its stored
// list is empty, and a variable only when it does not exist yet. Records
// may omit ID; identifiers are assigned by the next repair run.
package seed
