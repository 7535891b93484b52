/*
Package docmodel fornece uma camada fina de mapeamento objeto-documento (ODM)
sobre um banco de documentos (pacote docstore).

O usuário declara uma struct simples embutindo `Model` e ganha as operações
Make, Get, Save, Set, Delete e Query mapeadas em coleções/documentos. Cada
operação é um repasse direto ao banco: não há transações, retry, cache nem
controle de concorrência nesta camada.

Exemplo:

	type Book struct {
		docmodel.Model
		Title     string `dynamodbav:"title"`
		Author    string `dynamodbav:"author"`
		Publisher string `dynamodbav:"publisher"`
		Year      int    `dynamodbav:"year"`
		Pages     int    `dynamodbav:"pages"`
	}

	// Configuração única do processo (ou WithStore por handle)
	_ = docmodel.SetDefault(docstore.New(client, docstore.TableConfig{TableName: "documents"}))

	books := docmodel.NewCollection[Book]()

	b, err := books.Make(ctx, &Book{Title: "Sirens of Titan", Author: "Kurt Vonnegut"},
		docmodel.AndSave())

	got, err := books.Get(ctx, b.ID)

	it := books.Query([]docmodel.Filter{docmodel.Eq("author", "Kurt Vonnegut")}).Get()
	for {
		rec, err := it.Next(ctx)
		if err == docmodel.ErrDone {
			break
		}
		// ...
	}

Contrato de erros: falha alta na escrita (Save/Set e execução de Query),
falha suave na leitura e remoção (Get devolve nil, Delete devolve false),
a menos que a operação receba Strict. ErrNotConfigured propaga sempre.
*/
package docmodel
