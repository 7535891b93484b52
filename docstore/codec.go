// docstore/codec.go
package docstore

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

// MarshalFields converte um valor Go (struct com tags `dynamodbav` ou mapa)
// em um mapa plano de campos. É o codec compartilhado por todos os backends,
// garantindo que um registro gravado em um backend hidrate igual em outro.
func MarshalFields(v any) (map[string]any, error) {
	av, err := attributevalue.MarshalMap(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: marshal fields failed: %w", err)
	}
	var fields map[string]any
	if err := attributevalue.UnmarshalMap(av, &fields); err != nil {
		return nil, fmt.Errorf("docstore: marshal fields failed: %w", err)
	}
	return fields, nil
}

// DecodeFields desserializa um mapa plano de campos no destino. Chaves sem
// campo correspondente no destino são descartadas em silêncio.
func DecodeFields(fields map[string]any, target any) error {
	av, err := attributevalue.MarshalMap(fields)
	if err != nil {
		return fmt.Errorf("docstore: decode fields failed: %w", err)
	}
	if err := attributevalue.UnmarshalMap(av, target); err != nil {
		return fmt.Errorf("docstore: decode fields failed: %w", err)
	}
	return nil
}
