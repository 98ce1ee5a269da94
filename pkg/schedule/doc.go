// Package schedule provides recurring schedules and a Feeder that adds jobs
// to a queue whenever a schedule comes due.
//
// This package includes:
//   - Schedule interface for defining when something runs next
//   - Every() for fixed-interval schedules
//   - Daily() for daily schedules at a specific time
//   - Weekly() for weekly schedules on a specific day and time
//   - Cron() and ParseCron() for cron expression-based schedules
//   - Feeder, which builds a fresh job per firing and appends it to a queue
//
// The queue still executes fed jobs strictly in FIFO order; a schedule only
// decides when a job is appended, never when it runs.
package schedule
