package fieldcrypt

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/frahmantamala/clinic-management/internal/core/metrics"
	"github.com/frahmantamala/clinic-management/pkg/logger"
	"gorm.io/gorm/schema"
)

// SerializerName is the gorm tag value for encrypted columns:
//
//	FirstName string `gorm:"column:encrypted_first_name;serializer:phi"`
const SerializerName = "phi"

// Serializer is the gorm hook that encrypts on write and decrypts on read.
type Serializer struct {
	cipher *Cipher
	log    *slog.Logger
}

func NewSerializer(c *Cipher, log *slog.Logger) *Serializer {
	if log == nil {
		log = logger.LoggerWrapper()
	}
	return &Serializer{cipher: c, log: log}
}

// Register installs s under SerializerName. gorm keeps one serializer per
// name process-wide, so the last registration wins.
func Register(s *Serializer) {
	schema.RegisterSerializer(SerializerName, s)
}

// Scan never fails on a bad value. The field is blanked, a warning is
// logged and the failure is counted so the rest of the row still loads.
func (s *Serializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	var stored string
	switch v := dbValue.(type) {
	case nil:
	case string:
		stored = v
	case []byte:
		stored = string(v)
	default:
		return fmt.Errorf("fieldcrypt: unsupported column type %T for %s", dbValue, field.DBName)
	}

	plain, err := s.cipher.Decrypt(stored)
	if err != nil {
		table := tableOf(field)
		s.log.WarnContext(ctx, "phi column could not be decrypted, substituting empty value",
			"table", table,
			"column", field.DBName,
			"error", err,
		)
		metrics.IncPHIDecryptFailure(table, field.DBName)
		plain = ""
	}

	target := field.ReflectValueOf(ctx, dst)
	switch field.FieldType.Kind() {
	case reflect.String:
		target.SetString(plain)
	case reflect.Ptr:
		if field.FieldType.Elem().Kind() != reflect.String {
			return fmt.Errorf("fieldcrypt: %s must be string or *string", field.Name)
		}
		if dbValue == nil {
			target.Set(reflect.Zero(field.FieldType))
			return nil
		}
		p := reflect.New(field.FieldType.Elem())
		p.Elem().SetString(plain)
		target.Set(p)
	default:
		return fmt.Errorf("fieldcrypt: %s must be string or *string", field.Name)
	}
	return nil
}

func (s *Serializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	var plain string
	switch v := fieldValue.(type) {
	case string:
		plain = v
	case *string:
		if v == nil {
			return nil, nil
		}
		plain = *v
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("fieldcrypt: unsupported field type %T for %s", fieldValue, field.Name)
	}

	sealed, err := s.cipher.Encrypt(plain)
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: encrypt %s.%s: %w", tableOf(field), field.DBName, err)
	}
	return sealed, nil
}

func tableOf(field *schema.Field) string {
	if field.Schema != nil {
		return field.Schema.Table
	}
	return ""
}
