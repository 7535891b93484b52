// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package envloader

import (
	"fmt"
	"reflect"
)

// InvalidConfigError é retornado quando Load recebe um argumento que não é
// um ponteiro para struct.
type InvalidConfigError struct {
	Value reflect.Type
}

func (e *InvalidConfigError) Error() string {
	if e.Value.Kind() != reflect.Ptr {
		return fmt.Sprintf("envloader: config must be a pointer to struct, got %s", e.Value.Kind())
	}
	return fmt.Sprintf("envloader: config must be a pointer to struct, got pointer to %s", e.Value.Elem().Kind())
}

// FieldError encapsula a falha de conversão de um campo específico,
// carregando a variável de ambiente e o valor bruto que a causaram.
type FieldError struct {
	FieldName string
	EnvVar    string
	Value     string
	Err       error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("envloader: error setting field %s from env %s=%s: %v",
		e.FieldName, e.EnvVar, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError é retornado quando o tipo do campo não tem conversão
// suportada (ex: map, chan, slice de não-string).
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("envloader: unsupported type %s", e.Type)
}
