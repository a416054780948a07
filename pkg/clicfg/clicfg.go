package clicfg

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"
)

var (
	ErrCannotParseFlags = errors.New("cannot parse flags")
)

var durationType = reflect.TypeOf(time.Duration(0))

// ParseFlags fills the fields of s tagged with `flag:"name"` from the parsed command.
// Untagged struct fields are walked recursively.
func ParseFlags(c *cli.Command, s any) error {
	v := reflect.ValueOf(s)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("%w: expected pointer to struct, got %T", ErrCannotParseFlags, s)
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%w: expected pointer to struct, got pointer to %s", ErrCannotParseFlags, v.Kind())
	}

	return parseStruct(c, v)
}

func parseStruct(c *cli.Command, v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !fieldValue.CanSet() {
			continue
		}

		flagName := field.Tag.Get("flag")
		if flagName == "" {
			if field.Type.Kind() == reflect.Struct {
				if err := parseStruct(c, fieldValue); err != nil {
					return err
				}
			}
			continue
		}

		// flags not defined on this command keep the zero value
		if c.Value(flagName) == nil {
			continue
		}

		switch {
		case field.Type == durationType:
			fieldValue.SetInt(int64(c.Duration(flagName)))
		case field.Type.Kind() == reflect.Slice && field.Type.Elem().Kind() == reflect.String:
			fieldValue.Set(reflect.ValueOf(c.StringSlice(flagName)))
		case field.Type.Kind() == reflect.String:
			fieldValue.SetString(c.String(flagName))
		case field.Type.Kind() == reflect.Bool:
			fieldValue.SetBool(c.Bool(flagName))
		case field.Type.Kind() >= reflect.Int && field.Type.Kind() <= reflect.Int64:
			fieldValue.SetInt(int64(c.Int(flagName)))
		case field.Type.Kind() >= reflect.Uint && field.Type.Kind() <= reflect.Uint64:
			fieldValue.SetUint(uint64(c.Uint(flagName)))
		case field.Type.Kind() == reflect.Float32 || field.Type.Kind() == reflect.Float64:
			fieldValue.SetFloat(c.Float64(flagName))
		default:
			strVal := c.String(flagName)
			if strVal != "" {
				if err := setValueFromString(fieldValue, strVal); err != nil {
					return fmt.Errorf("%w: failed to set field %s: %w", ErrCannotParseFlags, field.Name, err)
				}
			}
		}
	}

	return nil
}

// setValueFromString attempts to convert a string value to the target type
func setValueFromString(fieldValue reflect.Value, strVal string) error {
	switch fieldValue.Kind() {
	case reflect.String:
		fieldValue.SetString(strVal)
	case reflect.Bool:
		boolVal, err := strconv.ParseBool(strVal)
		if err != nil {
			return err
		}
		fieldValue.SetBool(boolVal)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intVal, err := strconv.ParseInt(strVal, 10, 64)
		if err != nil {
			return err
		}
		fieldValue.SetInt(intVal)
	default:
		return fmt.Errorf("%w: unsupported type: %s", ErrCannotParseFlags, fieldValue.Kind())
	}
	return nil
}
