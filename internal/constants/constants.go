package constants

// Advisory lock ids taken in Postgres.
const (
	MigrationLock = iota + 7301
	SeedLock
)

var Locks = []int{
	MigrationLock,
	SeedLock,
}

// Schema holds every table the console owns.
const Schema = "jobconsole"
