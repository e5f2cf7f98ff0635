// Package config loads qcss.json, the project configuration for the qcss
// tooling.
//
// # Configuration File Structure
//
//	{
//	  "manifest": {
//	    "path": "dist/qcss-manifest.json",
//	    "watch": true,
//	    "s3": {"bucket": "", "key": "", "region": ""}
//	  },
//	  "attributes": {"id": "q-id", "ref": "data-ref", "key": "key"},
//	  "flip": {"duration": "300ms", "easing": "cubic-bezier(0.2, 0, 0.2, 1)"},
//	  "reactive": {"maxDepth": 100},
//	  "log": {"level": "info", "format": "text"},
//	  "preview": {"host": "localhost", "port": 4300, "pages": "pages"}
//	}
//
// Every field can be overridden from the environment with a QCSS_ prefix,
// for example QCSS_MANIFEST_PATH or QCSS_PREVIEW_PORT.
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.ManifestPath())
package config
