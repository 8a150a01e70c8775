// Package mock provides a test double for the record store client.
//
// MockRecordStore keeps records in memory and behaves like the REST API for
// the calls the records manager makes. Every method can be overridden through
// a function field to inject failures.
//
// # Usage in Tests
//
//	store := mock.NewMockRecordStore()
//	store.SearchRecordsFunc = func(ctx context.Context, params map[string]string) ([]*core.Record, error) {
//	    return nil, client.ErrRequestFailed
//	}
//
//	// Check call counts
//	count := store.CallCount("SearchRecords")
package mock
