// Package docmodeltoolkit fornece uma camada de conveniência de mapeamento
// objeto-documento (ODM) sobre um banco de documentos na nuvem.
//
// Visão Geral:
// O usuário declara uma struct simples embutindo docmodel.Model e ganha as
// operações Make, Get, Save, Set, Delete e Query mapeadas em
// coleções/documentos do banco. Cada operação é um repasse fino ao cliente
// do banco: a biblioteca não implementa protocolo, retry, cache, transação
// nem controle de concorrência.
//
// Sub-Pacotes Principais:
//
// 1. docmodel:
//   - Collection[T]: handle tipado com Make/Get/Save/Set/Delete/Query.
//   - Query: filtros conjuntivos (pares campo/valor ou triplas com
//     operador) traduzidos para a consulta nativa do banco, com streaming
//     preguiçoso de passada única e hidratação em structs tipadas.
//
// 2. docstore:
//   - A capacidade mínima de banco de documentos (Store, CollectionRef,
//     DocRef, DocumentIterator) com backend DynamoDB (aws-sdk-go-v2),
//     backend em memória e mocks para testes.
//   - WithMetrics: decorador de instrumentação por operação.
//
// 3. envloader:
//   - Carregamento de configurações via tags "env" e "envDefault".
//
// 4. metrics:
//   - Interface Provider com implementações Datadog (StatsD) e no-op.
//
// Veja examples/books para o fluxo completo de uso.
package docmodeltoolkit
