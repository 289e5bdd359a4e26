package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	DatabaseMySQL    = "mysql"
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

// PassThreshold 测验及格线（百分比）
const PassThreshold = 70

// CertificateCodePrefix 证书编号前缀
const CertificateCodePrefix = "CERT-"
