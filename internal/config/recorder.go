package config

import (
	"github.com/knadh/koanf/v2"

	"github.com/KasumiMercury/primind-void-timer/internal/infra/syncrecorder"
)

const (
	syncResultsDisabledKey = "sync_results_disabled"
	influxDBURLKey         = "influxdb_url"
	influxDBTokenKey       = "influxdb_token"
	influxDBOrgKey         = "influxdb_org"
	influxDBBucketKey      = "influxdb_bucket"
	bigQueryProjectIDKey   = "bigquery_project_id"
	bigQueryDatasetKey     = "bigquery_dataset"
	bigQueryTableKey       = "bigquery_table"
	googleCloudProjectKey  = "google_cloud_project"

	defaultInfluxDBURL    = "http://localhost:8086"
	defaultResultsDataset = "sync_results"
)

type RecorderConfig = syncrecorder.Config

func loadRecorderConfig(k *koanf.Koanf) *RecorderConfig {
	projectID := k.String(bigQueryProjectIDKey)
	if projectID == "" {
		projectID = k.String(googleCloudProjectKey)
	}

	return &RecorderConfig{
		Disabled: k.Bool(syncResultsDisabledKey),

		InfluxDBURL:    k.String(influxDBURLKey),
		InfluxDBToken:  k.String(influxDBTokenKey),
		InfluxDBOrg:    k.String(influxDBOrgKey),
		InfluxDBBucket: k.String(influxDBBucketKey),

		BigQueryProjectID: projectID,
		BigQueryDataset:   k.String(bigQueryDatasetKey),
		BigQueryTable:     k.String(bigQueryTableKey),
	}
}
