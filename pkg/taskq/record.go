package taskq

import "fmt"

// Record is an untyped task payload, for callers without a task schema of
// their own.
type Record = map[string]interface{}

// DefaultIndexField is the Record field used for duplicate suppression unless
// the queue is configured with its own KeyFunc.
const DefaultIndexField = "id"

// Field returns a KeyFunc reading the named Record field. Records missing the
// field are keyless. Values are normalized with fmt.Sprint, so identity is the
// value's string form.
func Field(name string) KeyFunc[Record] {
	return func(task Record) (string, bool) {
		value, ok := task[name]
		if !ok {
			return "", false
		}
		return fmt.Sprint(value), true
	}
}

// NewRecordQueue builds a Record queue indexed on the "id" field unless cfg
// supplies a KeyFunc.
func NewRecordQueue(process ProcessFunc[Record], cfg Config[Record]) *Queue[Record] {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = Field(DefaultIndexField)
	}
	return New(process, cfg)
}
