/*
Package catalog loads the declarative question script that drives an intake.

A catalog is a single YAML document listing the scripted nodes in order:

	start: emergency
	service_key: service_type
	nodes:
	  - id: emergency
	    type: choice
	    prompt: Is this an emergency?
	    options: ["Yes", "No"]
	    capture: is_emergency
	    next: service
	  - id: service
	    type: choice
	    prompt: Which service do you need?
	    options: ["Leak Repair", "Drain Cleaning"]
	    capture: service_type
	    next: details
	  - id: details
	    type: branch
	    variable: service_type
	    cases:
	      leak_repair:
	        - Where is the leak?

A catalog is validated as a whole when it is parsed and is read-only afterwards,
so a single instance can be shared by every session in the process.
*/
package catalog
