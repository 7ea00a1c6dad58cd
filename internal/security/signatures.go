// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package security

// Category groups signatures by the kind of attack they indicate.
type Category string

const (
	CategoryBot           Category = "bot_user_agent"
	CategoryPathTraversal Category = "path_traversal"
	CategorySQLInjection  Category = "sql_injection"
	CategoryXSS           Category = "xss"
)

// userAgentSignatures flag automated clients and known scanners.
var userAgentSignatures = []Signature{
	{"bot", CategoryBot},
	{"crawler", CategoryBot},
	{"spider", CategoryBot},
	{"scraper", CategoryBot},
	{"curl", CategoryBot},
	{"wget", CategoryBot},
	{"python-requests", CategoryBot},
	{"python-urllib", CategoryBot},
	{"go-http-client", CategoryBot},
	{"sqlmap", CategoryBot},
	{"nikto", CategoryBot},
	{"nmap", CategoryBot},
	{"masscan", CategoryBot},
	{"zgrab", CategoryBot},
	{"dirbuster", CategoryBot},
	{"gobuster", CategoryBot},
	{"nuclei", CategoryBot},
	{"wpscan", CategoryBot},
	{"acunetix", CategoryBot},
}

// urlSignatures are matched against the request URI both as received and
// after percent-decoding.
var urlSignatures = []Signature{
	{"../", CategoryPathTraversal},
	{"..\\", CategoryPathTraversal},
	{"%2e%2e", CategoryPathTraversal},
	{"%252e%252e", CategoryPathTraversal},
	{"/etc/passwd", CategoryPathTraversal},

	{"union select", CategorySQLInjection},
	{"union all select", CategorySQLInjection},
	{"drop table", CategorySQLInjection},
	{"insert into", CategorySQLInjection},
	{"delete from", CategorySQLInjection},
	{"' or '1'='1", CategorySQLInjection},
	{"' or 1=1", CategorySQLInjection},
	{"'--", CategorySQLInjection},
	{"'#", CategorySQLInjection},
	{"/**/", CategorySQLInjection},
	{"xp_cmdshell", CategorySQLInjection},
	{"sleep(", CategorySQLInjection},

	{"<script", CategoryXSS},
	{"</script", CategoryXSS},
	{"javascript:", CategoryXSS},
	{"vbscript:", CategoryXSS},
	{"onerror=", CategoryXSS},
	{"onload=", CategoryXSS},
	{"onmouseover=", CategoryXSS},
	{"<iframe", CategoryXSS},
	{"document.cookie", CategoryXSS},
}
