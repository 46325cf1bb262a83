package db

// Checkpoint is a kv-backed pagination cursor. Each pipeline uses its own
// name so concurrent pipelines keep disjoint checkpoints. LevelDB writes are
// atomic per key, satisfying the no-partial-write requirement.
type Checkpoint struct {
	db  *DB
	key string
}

// NewCheckpoint returns a checkpoint stored under the pipeline's name.
func NewCheckpoint(db *DB, name string) *Checkpoint {
	return &Checkpoint{db: db, key: "checkpoint/" + name}
}

func (c *Checkpoint) Load() (string, error) {
	raw, found, err := c.db.get([]byte(c.key))
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}
	return string(raw), nil
}

func (c *Checkpoint) Save(token string) error {
	return c.db.put([]byte(c.key), []byte(token))
}

func (c *Checkpoint) Clear() error {
	return c.db.delete([]byte(c.key))
}
