// Package docstore fornece a capacidade mínima de banco de documentos usada
// pela camada de modelos (docmodel): coleções, documentos endereçados por id
// e consultas filtradas com streaming preguiçoso.
//
// Visão Geral:
// A interface `Store` resolve handles de coleção (`CollectionRef`), que por
// sua vez resolvem referências de documento (`DocRef`) e consultas filtradas
// encadeando `Where` e `Limit`. O resultado de uma consulta é um
// `DocumentIterator` de passada única, que só toca o backend quando o
// consumidor pede o próximo item.
//
// Backends disponíveis:
//   - New: Amazon DynamoDB (aws-sdk-go-v2), tabela única com a coleção na
//     chave de partição e o id do documento na chave de ordenação. Filtros
//     são traduzidos para Filter Expressions e a paginação usa
//     ExclusiveStartKey de forma transparente ao iterador.
//   - NewMemory: backend em memória com a mesma semântica, para testes e
//     desenvolvimento local.
//   - MockStore / MockCollection / MockDoc / MockIterator: mocks com campos
//     de função e registro de chamadas para testes unitários.
//
// O decorador `WithMetrics` instrumenta qualquer Store com contadores e
// latência por operação (pacote metrics).
//
// Exemplo:
//
//	client := dynamodb.NewFromConfig(awsCfg)
//	store := docstore.New(client, docstore.TableConfig{TableName: "documents"})
//
//	it := store.Collection("Book").
//		Where("author", docstore.OpEqual, "Kurt Vonnegut").
//		Limit(10).
//		Documents()
//	for {
//		raw, err := it.Next(ctx)
//		if err == docstore.ErrIteratorDone {
//			break
//		}
//		// ...
//	}
package docstore
