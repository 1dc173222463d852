// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package rowstore

import (
	reflect "reflect"

	rowkey "github.com/Fantom-foundation/MatrixStore/backend/rowkey"
	common "github.com/Fantom-foundation/MatrixStore/common"
	gomock "go.uber.org/mock/gomock"
)

// MockStore is a mock of Store interface.
type MockStore struct {
	ctrl     *gomock.Controller
	recorder *MockStoreMockRecorder
}

// MockStoreMockRecorder is the mock recorder for MockStore.
type MockStoreMockRecorder struct {
	mock *MockStore
}

// NewMockStore creates a new mock instance.
func NewMockStore(ctrl *gomock.Controller) *MockStore {
	mock := &MockStore{ctrl: ctrl}
	mock.recorder = &MockStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStore) EXPECT() *MockStoreMockRecorder {
	return m.recorder
}

// Close mocks base method.
func (m *MockStore) Close() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close")
	ret0, _ := ret[0].(error)
	return ret0
}

// Close indicates an expected call of Close.
func (mr *MockStoreMockRecorder) Close() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockStore)(nil).Close))
}

// CreateMatrix mocks base method.
func (m *MockStore) CreateMatrix(identity string, rows int, columns int) (Metadata, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateMatrix", identity, rows, columns)
	ret0, _ := ret[0].(Metadata)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CreateMatrix indicates an expected call of CreateMatrix.
func (mr *MockStoreMockRecorder) CreateMatrix(identity, rows, columns any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateMatrix", reflect.TypeOf((*MockStore)(nil).CreateMatrix), identity, rows, columns)
}

// Delete mocks base method.
func (m *MockStore) Delete(row rowkey.RowKey, column rowkey.ColumnKey) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", row, column)
	ret0, _ := ret[0].(error)
	return ret0
}

// Delete indicates an expected call of Delete.
func (mr *MockStoreMockRecorder) Delete(row, column any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockStore)(nil).Delete), row, column)
}

// DeleteRange mocks base method.
func (m *MockStore) DeleteRange(start rowkey.RowKey, limit rowkey.RowKey) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteRange", start, limit)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteRange indicates an expected call of DeleteRange.
func (mr *MockStoreMockRecorder) DeleteRange(start, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteRange", reflect.TypeOf((*MockStore)(nil).DeleteRange), start, limit)
}

// DropMatrix mocks base method.
func (m *MockStore) DropMatrix(identity string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DropMatrix", identity)
	ret0, _ := ret[0].(error)
	return ret0
}

// DropMatrix indicates an expected call of DropMatrix.
func (mr *MockStoreMockRecorder) DropMatrix(identity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DropMatrix", reflect.TypeOf((*MockStore)(nil).DropMatrix), identity)
}

// Flush mocks base method.
func (m *MockStore) Flush() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Flush")
	ret0, _ := ret[0].(error)
	return ret0
}

// Flush indicates an expected call of Flush.
func (mr *MockStoreMockRecorder) Flush() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Flush", reflect.TypeOf((*MockStore)(nil).Flush))
}

// Get mocks base method.
func (m *MockStore) Get(row rowkey.RowKey, column rowkey.ColumnKey) (float64, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", row, column)
	ret0, _ := ret[0].(float64)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// Get indicates an expected call of Get.
func (mr *MockStoreMockRecorder) Get(row, column any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockStore)(nil).Get), row, column)
}

// GetColumns mocks base method.
func (m *MockStore) GetColumns(row rowkey.RowKey, columns []rowkey.ColumnKey) ([]Entry, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetColumns", row, columns)
	ret0, _ := ret[0].([]Entry)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetColumns indicates an expected call of GetColumns.
func (mr *MockStoreMockRecorder) GetColumns(row, columns any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetColumns", reflect.TypeOf((*MockStore)(nil).GetColumns), row, columns)
}

// GetMemoryFootprint mocks base method.
func (m *MockStore) GetMemoryFootprint() *common.MemoryFootprint {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetMemoryFootprint")
	ret0, _ := ret[0].(*common.MemoryFootprint)
	return ret0
}

// GetMemoryFootprint indicates an expected call of GetMemoryFootprint.
func (mr *MockStoreMockRecorder) GetMemoryFootprint() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetMemoryFootprint", reflect.TypeOf((*MockStore)(nil).GetMemoryFootprint))
}

// GetRow mocks base method.
func (m *MockStore) GetRow(row rowkey.RowKey) ([]Entry, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetRow", row)
	ret0, _ := ret[0].([]Entry)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetRow indicates an expected call of GetRow.
func (mr *MockStoreMockRecorder) GetRow(row any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetRow", reflect.TypeOf((*MockStore)(nil).GetRow), row)
}

// ListMatrices mocks base method.
func (m *MockStore) ListMatrices() ([]Metadata, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListMatrices")
	ret0, _ := ret[0].([]Metadata)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListMatrices indicates an expected call of ListMatrices.
func (mr *MockStoreMockRecorder) ListMatrices() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListMatrices", reflect.TypeOf((*MockStore)(nil).ListMatrices))
}

// LookupMatrix mocks base method.
func (m *MockStore) LookupMatrix(identity string) (Metadata, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "LookupMatrix", identity)
	ret0, _ := ret[0].(Metadata)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// LookupMatrix indicates an expected call of LookupMatrix.
func (mr *MockStoreMockRecorder) LookupMatrix(identity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LookupMatrix", reflect.TypeOf((*MockStore)(nil).LookupMatrix), identity)
}

// PutRow mocks base method.
func (m *MockStore) PutRow(row rowkey.RowKey, entries []Entry) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PutRow", row, entries)
	ret0, _ := ret[0].(error)
	return ret0
}

// PutRow indicates an expected call of PutRow.
func (mr *MockStoreMockRecorder) PutRow(row, entries any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PutRow", reflect.TypeOf((*MockStore)(nil).PutRow), row, entries)
}

// Scan mocks base method.
func (m *MockStore) Scan(start rowkey.RowKey, limit rowkey.RowKey, visit func(rowkey.RowKey, []Entry) error) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Scan", start, limit, visit)
	ret0, _ := ret[0].(error)
	return ret0
}

// Scan indicates an expected call of Scan.
func (mr *MockStoreMockRecorder) Scan(start, limit, visit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Scan", reflect.TypeOf((*MockStore)(nil).Scan), start, limit, visit)
}
