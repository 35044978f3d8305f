// Package config provides configuration parsing for jsxdom projects.
//
// The configuration is stored in jsxdom.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "logLevel": "info",
//	  "pretty": true,
//	  "components": {
//	    "Card": "components/card.json"
//	  },
//	  "preview": {
//	    "host": "localhost",
//	    "port": 3100,
//	    "dir": "pages",
//	    "hotReload": true,
//	    "ignore": [".git", "node_modules"]
//	  },
//	  "publish": {
//	    "bucket": "my-site",
//	    "prefix": "pages/",
//	    "region": "eu-west-1"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Discover(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Preview:", cfg.Address())
package config
