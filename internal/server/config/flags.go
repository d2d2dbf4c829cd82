package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/labdrive/internal/flagx"
)

var knownFlags = []string{"-a", "-d", "-s", "-t", "-x", "-m", "-u", "-p", "-b", "-g", "-e", "-n", "-w", "-v"}

// parseFlags populates server Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-d string   PostgreSQL DSN
//	-s string   HMAC secret key
//	-t int      session validity, minutes
//	-x int      presigned URL validity, minutes
//	-m int      image storage token validity, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-n string   development user name
//	-w string   development user password
//	-v string   log level
//
// Duration flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	session := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session validity (in minutes)")
	presign := fs.Int("x", int(config.PresignValidityDuration.Minutes()), "presigned url validity (in minutes)")
	imageStorage := fs.Int("m", int(config.ImageStorageValidityDuration.Minutes()), "image storage token validity (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.DevUserName, "n", config.DevUserName, "development user name")
	fs.StringVar(&config.DevUserPassword, "w", config.DevUserPassword, "development user password")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*session) * time.Minute
	config.PresignValidityDuration = time.Duration(*presign) * time.Minute
	config.ImageStorageValidityDuration = time.Duration(*imageStorage) * time.Minute
}
