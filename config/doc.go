// Package config loads the worker configuration from a YAML file and the
// environment. It defines the logging settings and the list of ping targets.
//
// Targets can also come from indexed environment variables:
//
//	PINGTARGETS__0__NAME=api
//	PINGTARGETS__0__ADDRESS=https://api.example.com/health
//	PINGTARGETS__0__INTERVALMINUTES=10
//
// When any such variable is present the environment list replaces the file list.
package config
