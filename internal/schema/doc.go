// Package schema models the column-mapping config that describes how each
// CSV column maps to a logical data model (LDM) role, and persists it as YAML.
//
// # Config file
//
//	name: orders
//	columns:
//	  - name: order_id
//	    ldmType: ATTRIBUTE
//	    title: Order ID
//	    folder: folder
//	  - name: amount
//	    ldmType: FACT
//	    title: Amount
//	    folder: folder
//
// Column order is the column position in the data file. Generation only ever
// appends columns for headers past the ones the config already describes;
// existing entries are never reordered or edited.
package schema
