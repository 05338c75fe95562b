package model

// TagRecord is one attribute value attached to a map feature.
// Records are values: normalizers build new ones instead of editing the input.
type TagRecord struct {
	ParentID int64  `db:"parent_id"`
	Key      string `db:"key"`
	Value    string `db:"value"`
	Type     string `db:"type"`
}

// WithValue returns a copy of r carrying value.
func (r TagRecord) WithValue(value string) TagRecord {
	return TagRecord{ParentID: r.ParentID, Key: r.Key, Value: value, Type: r.Type}
}

// WithKeyValue returns a copy of r carrying key and value.
func (r TagRecord) WithKeyValue(key, value string) TagRecord {
	return TagRecord{ParentID: r.ParentID, Key: key, Value: value, Type: r.Type}
}

// InsertValues returns the record's values in tag table column order.
func (r TagRecord) InsertValues() []any {
	return []any{r.ParentID, r.Key, r.Value, r.Type}
}

// TagRow mirrors the Parquet schema used for bulk loading tag tables.
type TagRow struct {
	ParentID int64  `parquet:"id"`
	Key      string `parquet:"key"`
	Value    string `parquet:"value"`
	Type     string `parquet:"type,optional"`
}

// Record converts a Parquet row into a TagRecord.
func (r *TagRow) Record() TagRecord {
	return TagRecord{ParentID: r.ParentID, Key: r.Key, Value: r.Value, Type: r.Type}
}
