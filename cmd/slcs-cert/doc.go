// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// slcs-cert is the command-line client for a Short Lived Credential Service.
// It prepares the private key and PKCS#10 certificate request sent to the
// service, and checks and packages the certificate it returns.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/slcs/org.glite.slcs.common/cmd/slcs-cert@latest
//
// # Usage
//
//	slcs-cert [COMMAND] [FLAGS]
//
// # Commands
//
//	keygen   Generate an RSA private key
//	csr      Create a certificate request with a subject and extensions
//	inspect  Show a certificate request or certificate file
//	chain    Print, complete or convert a certificate chain
//	trust    Check a server chain against system roots and the local trust store
//	pkcs12   Pack the private key and issued certificate into a PKCS#12 file
//
// # Global Flags
//
//	-c, --config      Configuration file (JSON or YAML)
//	-v, --verbose     Print debug messages
//	    --log-format  text or json
//
// # Environment Variables
//
//	SLCS_CONFIG_FILE          Path to configuration file (alternative to --config flag)
//	SLCS_TRUSTSTORE_PASSWORD  Trust store password
//
// # Example
//
//	slcs-cert keygen --out userkey.pem --pass-env SLCS_KEY_PASSWORD
//	slcs-cert csr --subject "CN=Alice Example,O=Example,C=CH" --key userkey.pem \
//	    --pass-env SLCS_KEY_PASSWORD --ext "KeyUsage=DigitalSignature,KeyEncipherment" \
//	    --out usercert_request.pem
//	slcs-cert trust --remote slcs.example.org --truststore truststore.jks
package main
