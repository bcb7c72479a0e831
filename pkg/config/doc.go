/*
Package config loads sortrc run defaults.

	            +-------------+
	            |   Config    |
	            | (defaults)  |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|  YAML   |   |  JSON   |   |   HCL   |
	| Parser  |   | Parser  |   | Parser  |
	+---------+   +---------+   +---------+

🎯 Purpose:
- Reads an optional .sortrc file so common flags need not be repeated
- Fills defaults and rejects unknown modes, actions and policies
- Owns the default locations of the category table and the undo journal

🔄 Flow:
1. Find looks for .sortrc, .sortrc.{yaml,yml,json,hcl} in the working
   directory, then config.{yaml,yml,json,hcl} in the user config directory
2. The parser is picked by extension; a bare .sortrc may be YAML or HCL
3. Validate fills defaults and resolves relative paths against the file

📁 Locations:
- categories: $SORTRC_CONFIG_DIR or $XDG_CONFIG_HOME/sortrc/categories.json
- journal:    $SORTRC_STATE_DIR or $XDG_STATE_HOME/sortrc/undo.log

🔍 Example:

	# .sortrc.yaml
	source: ~/Downloads
	mode: date
	conflict: skip
	ignore:
	  - "*.part"
	  - ".git/**"

	# .sortrc.hcl
	source    = "${home}/Downloads"
	mode      = "date"
	recursive = true
*/
package config
