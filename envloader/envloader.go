package envloader

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load preenche uma struct com valores de variáveis de ambiente, guiado
// pelas tags "env" e "envDefault". Campos sem tag env são ignorados, assim
// como variáveis vazias sem default.
func Load(config any) error {
	val := reflect.ValueOf(config)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return &InvalidConfigError{Value: val.Type()}
	}
	return loadStruct(val.Elem())
}

// MustLoad é similar ao Load, mas panic em caso de erro.
func MustLoad(config any) {
	if err := Load(config); err != nil {
		panic(err)
	}
}

func loadStruct(val reflect.Value) error {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		// Structs aninhadas (e ponteiros para elas) são processadas
		// recursivamente; time.Duration não, por ser tipo escalar.
		if field.Kind() == reflect.Struct {
			if err := loadStruct(field); err != nil {
				return err
			}
			continue
		}
		if field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct {
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			if err := loadStruct(field.Elem()); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		envValue := os.Getenv(envTag)
		if envValue == "" {
			envValue = fieldType.Tag.Get("envDefault")
		}
		if envValue == "" {
			continue
		}

		if err := setField(field, envValue); err != nil {
			return &FieldError{
				FieldName: fieldType.Name,
				EnvVar:    envTag,
				Value:     envValue,
				Err:       err,
			}
		}
	}

	return nil
}

func setField(field reflect.Value, value string) error {
	// time.Duration aceita o formato do time.ParseDuration ("30s", "1h").
	if field.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return &UnsupportedTypeError{Type: field.Type()}
		}
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		field.Set(reflect.ValueOf(out))

	default:
		return &UnsupportedTypeError{Type: field.Type()}
	}

	return nil
}
