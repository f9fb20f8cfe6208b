// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	cfg, err := cliparse.ParseFlags(os.Args[1:])

CLI flags take precedence over environment variables. ParseFlags returns an
error when DATABASE_URL is missing, DATABASE_TYPE is not sqlite or postgres,
or a duration or port value does not parse.

SUPERBOWL_ADMIN_TOKEN is optional at startup. Routes that need it check
Config.CheckAdminToken per request and answer CONFIG_ERROR.
*/
package cliparse
