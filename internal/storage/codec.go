package storage

import (
	"encoding/json"
	"fmt"

	"matchenv/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

func EncodeEpisode(record model.EpisodeRecord) ([]byte, error) {
	record.SchemaVersion = CurrentSchemaVersion
	record.CodecVersion = CurrentCodecVersion
	return json.Marshal(record)
}

func DecodeEpisode(payload []byte) (model.EpisodeRecord, error) {
	var record model.EpisodeRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return model.EpisodeRecord{}, err
	}
	if record.SchemaVersion != CurrentSchemaVersion {
		return model.EpisodeRecord{}, fmt.Errorf("unsupported episode schema version: %d", record.SchemaVersion)
	}
	return record, nil
}

func EncodeExposure(buckets []model.ExposureBucket) ([]byte, error) {
	return json.Marshal(buckets)
}

func DecodeExposure(payload []byte) ([]model.ExposureBucket, error) {
	var buckets []model.ExposureBucket
	if err := json.Unmarshal(payload, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}
