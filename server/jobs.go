package server

import (
	"github.com/nishikaramnani04/PIH2026-SHEield/server/work"
	"github.com/nishikaramnani04/PIH2026-SHEield/utils"
)

func backupSqliteDb(map[string]interface{}) error {
	if gStorage == nil {
		logg.Warn("no google storage client configured, skipping db backup")
		return nil
	}

	if !utils.FileExist(dataStore.DBFilePath()) {
		logg.Warnf("db file %v not found, skipping backup", dataStore.DBFilePath())
		return nil
	}

	storageConfig := serverConfig.Google.Storage
	return gStorage.UploadFile(storageConfig.Bucket, storageConfig.Prefix, dataStore.DBFilePath())
}

func registerJobHandlers(wpa *work.WorkerPoolAdapter) {
	wpa.Register("backupSqliteDb", backupSqliteDb)
}

func enqueueJobs(wpa *work.WorkerPoolAdapter) {
	if !serverConfig.Google.Storage.IsBackupEnabled() {
		return
	}

	wpa.PeriodicallyPerform(serverConfig.Google.Storage.BackupSchedule, work.JobParams{
		Name:    "backupSqliteDb",
		Handler: "backupSqliteDb",
		Args:    map[string]interface{}{},
	})
}
