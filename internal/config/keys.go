// Package config resolves ztctl settings from command-line flags, the
// environment, a .env file and an ini credentials file.
//
// # Precedence
//
// A flag given on the command line always wins. Otherwise the environment is
// consulted, then the selected profile of the credentials file, then the
// built-in default. Values still missing after that are prompted for when
// stdin is a terminal.
//
// # Credentials file
//
// The credentials file is ini formatted with one section per profile:
//
//	[default]
//	api_token  = xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx
//	network_id = 8056c2e21c000001
//
//	[lab]
//	api_token  = yyyyyyyyyyyyyyyyyyyyyyyyyyyyyyyy
//	network_id = 8056c2e21c000002
//	api_url    = https://central.lab.example.com/api/v1
package config

// Environment variable keys.
// A .env file in the working directory is loaded into the environment first;
// variables already set in the real environment are not overridden.
const (
	// EnvAPIToken is the Central API access token.
	// Managed from the Account tab of the Central web UI.
	EnvAPIToken = "NSF_ZEROTIER_API_TOKEN"

	// EnvNetworkID is the 16 hex digit network id.
	// Shown on the Network tab of the Central web UI.
	EnvNetworkID = "NSF_ZEROTIER_NETWORK_ID"

	// EnvMemberID is the 10 hex digit member (node) id.
	// Printed as the third field of `zerotier-cli info` on the device.
	EnvMemberID = "NSF_ZEROTIER_MEMBER_ID"

	// EnvAPIURL overrides the Central API root.
	// Value: "https://api.zerotier.com/api/v1"
	EnvAPIURL = "NSF_ZEROTIER_API_URL"
)

// Credentials file keys, read from the selected profile section.
const (
	FileKeyAPIToken  = "api_token"
	FileKeyNetworkID = "network_id"
	FileKeyMemberID  = "member_id"
	FileKeyAPIURL    = "api_url"
)

// Well-known values.
const (
	DefaultProfile = "default"
	DotEnvFile     = ".env"
	configDirName  = "ztctl"
	configFileName = "config.ini"
)
