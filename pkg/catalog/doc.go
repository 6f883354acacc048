/*
Package catalog implements the table of canned USSD screens.

A catalog maps a dial code to its root screen and (code, depth, key) triples to the
screens reached by selecting options. Screens are templates: "${operator}" is replaced
by the operator name of the session, "${code}" and "${key}" by the dial code and the
selected key. Substitution is a single pass; substituted values are never expanded again.

Codes and selections the table does not know degrade to fallback screens rather than
errors: an unknown root says the service is unavailable, an unknown first-level
selection looks like a stub ("feature coming soon") and an unknown deeper selection
looks like a completed transaction.

Tables are plain data, usually YAML:

	codes:
	  - code: "*131#"
	    description: Data Topup
	    category: data
	    message: |-
	      ${operator} Data Topup
	    options:
	      - { key: "1", text: "1GB - 10 MAD" }
	      - { key: "0", text: "Exit" }
	    next:
	      - depth: 1
	        key: "1"
	        message: "${operator} Data Bundles"
*/
package catalog
