/*
Package config loads edit recipes and merges them with the command line.

	            +-------------+
	            |   Config    |
	            |  (Recipe)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Describes one edit as a file so it can be kept next to the system it configures
- Chooses a parser by file extension
- Rejects unknown keys in every format

🔄 Flow:
1. Load reads the recipe and picks a parser
2. The parser decodes into Config
3. Merge overlays the command line
4. Operation builds the text.Operation to run

📝 A recipe selects at most one of line, block, replace and replace_re.
Flags given on the command line win over the recipe.

🔍 Example:

	path: /etc/sysctl.conf
	protected: ["/boot/**"]
	replace_re:
	  pattern: 'vm\.swappiness = \d+'
	  replacement: 'vm.swappiness = 11'

HCL recipes can read the environment:

	path = "${env.HOME}/.bashrc"
	line = "export EDITOR=vim"
*/
package config
