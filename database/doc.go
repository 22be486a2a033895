// Package database opens the relational store used for metadata, apps and
// users. It wraps GORM with connection retry, pool settings, a zerolog
// query logger and error classification into the service taxonomy.
//
// The driver is chosen by configuration:
//
//	database:
//	  driver: "postgres"   # or "sqlite"
//	  dsn: "host=localhost user=identity dbname=identity sslmode=disable"
package database
