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
//
// Package envloader carrega variáveis de ambiente diretamente para campos
// de uma struct Go, guiado pelas tags `env` e `envDefault`.
//
// É o mecanismo de configuração usado pelo docstore: um `TableConfig` vazio
// é preenchido a partir do ambiente na construção do Store.
//
// Tipos suportados: string, int*, uint*, float*, bool, time.Duration,
// []string (separado por vírgula) e structs aninhadas (inclusive via
// ponteiro). Campos sem tag `env` são ignorados; falhas de conversão
// retornam um *FieldError com a variável e o valor ofensores.
//
// Exemplo:
//
//	type Config struct {
//		TableName string        `env:"DOCSTORE_TABLE_NAME" envDefault:"documents"`
//		Timeout   time.Duration `env:"DOCSTORE_TIMEOUT" envDefault:"30s"`
//	}
//
//	cfg := &Config{}
//	if err := envloader.Load(cfg); err != nil {
//		log.Fatal().Err(err).Msg("invalid configuration")
//	}
package envloader
