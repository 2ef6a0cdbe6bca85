/*

Package migration provides tooling necessary for working with schema versioned
dashboard documents.

Schema versions are sequential integers starting with 1. Each version is a
Schema that can verify whether a document already satisfies the requirements
the version introduced, and update a document that does not. A version only
asserts the fields it introduced, never fields of later versions.

Global preparation.

1. build a Register with all schema versions once, at the program start. The
versions package provides the register of all known dashboard versions:

    reg := versions.NewRegister(logger)

2. create a Runner using that register and reuse it for every document:

    runner := migration.NewRunner(reg, logger)
    doc, err := runner.Migrate(doc)


Writing a schema version.

Most versions check and rewrite single widgets. Use WidgetSchema to declare
such a version with a check and an upgrade visitor:

    migration.WidgetSchema{
        Number:  6,
        Walker:  wk,
        Require: migration.RequireResult("row_limit"),
        Upgrade: func(w *dashboard.Widget) error { ... },
    }

An upgrade must be idempotent and must only write the fields the version
owns. A registered version must not be altered once released, because
documents stamped with its number were produced by it.

*/
package migration
