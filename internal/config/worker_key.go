package config

type WorkerKeyStruct struct {
	PersistWorksheetRecordsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistWorksheetRecordsQueue: "persist_worksheet_records_queue",
}
