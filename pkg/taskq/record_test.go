package taskq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestField(t *testing.T) {
	key := Field("id")

	got, ok := key(Record{"id": "abc"})
	assert.True(t, ok)
	assert.Equal(t, "abc", got)

	// Non-string values are normalized to their string form
	got, ok = key(Record{"id": 42})
	assert.True(t, ok)
	assert.Equal(t, "42", got)

	_, ok = key(Record{"other": "abc"})
	assert.False(t, ok)
}

func TestNewRecordQueue_DefaultIndexField(t *testing.T) {
	q := NewRecordQueue(func(task Record, done DoneFunc) {
		done()
	}, Config[Record]{})

	q.Add(Record{"id": 1}, false)
	q.Add(Record{"id": 1, "extra": true}, false)

	assert.Equal(t, 1, q.Len(), "records sharing an id are duplicates")
}

func TestNewRecordQueue_CustomKeyFunc(t *testing.T) {
	q := NewRecordQueue(func(task Record, done DoneFunc) {
		done()
	}, Config[Record]{KeyFunc: Field("email")})

	q.Add(Record{"id": 1, "email": "a@example.com"}, false)
	q.Add(Record{"id": 2, "email": "a@example.com"}, false)

	assert.Equal(t, 1, q.Len(), "dedup follows the configured field, not id")
}

func TestField_MixedTypeCollision(t *testing.T) {
	q := NewRecordQueue(func(task Record, done DoneFunc) {
		done()
	}, Config[Record]{})

	// 1 and "1" normalize to the same key
	q.Add(Record{"id": 1}, false)
	q.Add(Record{"id": "1"}, false)

	assert.Equal(t, 1, q.Len())
}
