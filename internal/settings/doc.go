// Package settings resolves the client configuration for a single faas3 run.
//
// Values come, in increasing precedence, from built-in defaults, an HCL
// settings file (~/.faas3/settings.hcl unless another path is given),
// FAAS3_* environment variables (optionally seeded from a .env file) and
// finally command-line flags applied by the caller.
//
// A settings file may contain three optional blocks:
//
//	api {
//	  base_url = "https://faas3.deno.dev"
//	  timeout  = "30s"
//	}
//
//	chain {
//	  rpc_url    = "https://fullnode.devnet.sui.io:443"
//	  package_id = "0x..."
//	  module     = "faas_nft"
//	  function   = "mint"
//	  gas_budget = 10000000
//	  keystore   = "${home}/.sui/sui_config/sui.keystore"
//	}
//
//	log {
//	  level  = "info"
//	  format = "text"
//	}
//
// Expressions can use the home variable and the env, coalesce and lower
// functions.
package settings
