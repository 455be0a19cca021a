package repository

import (
	"fmt"
	"reflect"
	"time"
	"todoTracker/internal/models/task"
	"todoTracker/internal/store"

	"github.com/go-viper/mapstructure/v2"
)

// editable - поля, которые можно передавать в частичное обновление
var editable = map[string]bool{
	task.FieldTaskName:    true,
	task.FieldDueDate:     true,
	task.FieldPriority:    true,
	task.FieldDescription: true,
	task.FieldStatus:      true,
	task.FieldHasOverDue:  true,
}

func draftToRecord(draft task.Draft) store.Record {
	status := draft.Status
	if status == "" {
		status = task.StatusPending
	}
	return store.Record{
		task.FieldTaskName:    draft.TaskName,
		task.FieldDueDate:     draft.DueDate.Format(time.RFC3339),
		task.FieldPriority:    draft.Priority,
		task.FieldDescription: draft.Description,
		task.FieldStatus:      string(status),
		task.FieldHasOverDue:  false,
	}
}

func fieldsToRecord(fields task.Fields) (store.Record, error) {
	record := make(store.Record, len(fields))
	for name, value := range fields {
		if !editable[name] {
			return nil, fmt.Errorf("неизвестное поле %q", name)
		}
		switch v := value.(type) {
		case time.Time:
			record[name] = v.Format(time.RFC3339)
		case task.Status:
			record[name] = string(v)
		default:
			record[name] = v
		}
	}
	return record, nil
}

func stringToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}

	// dueDate в хранилище лежит строкой RFC 3339, старые записи могут содержать только дату
	return task.ParseDate(data.(string))
}

func recordToTask(id string, record store.Record) (*task.Task, error) {
	t := &task.Task{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     t,
		TagName:    "mapstructure",
		DecodeHook: mapstructure.DecodeHookFuncType(stringToTimeHook),
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(map[string]any(record)); err != nil {
		return nil, fmt.Errorf("разбор документа %s: %w", id, err)
	}

	t.ID = id
	if t.Status == "" {
		t.Status = task.StatusPending
	}
	return t, nil
}
