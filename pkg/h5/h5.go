/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package h5 is a thin wrapper over the HDF5 C API covering the small
// surface RDR files need: byte datasets, object reference datasets,
// fixed-ascii and numeric attributes and link enumeration.
package h5

/*
#cgo LDFLAGS: -lhdf5
#include <stdlib.h>
#include <hdf5.h>

// Macros like H5T_C_S1 expand to expressions cgo cannot evaluate, so the
// handles are fetched through these shims.
static hid_t h5t_u8(void)   { return H5T_NATIVE_UINT8; }
static hid_t h5t_u64(void)  { return H5T_NATIVE_UINT64; }
static hid_t h5t_i64(void)  { return H5T_NATIVE_INT64; }
static hid_t h5t_f32(void)  { return H5T_NATIVE_FLOAT; }
static hid_t h5t_ref(void)  { return H5T_STD_REF_OBJ; }

static hid_t h5t_ascii(size_t n) {
	hid_t t = H5Tcopy(H5T_C_S1);
	H5Tset_size(t, n);
	H5Tset_strpad(t, H5T_STR_NULLPAD);
	return t;
}

// Link creation properties with intermediate group creation enabled.
static hid_t h5p_mkdirs(void) {
	hid_t p = H5Pcreate(H5P_LINK_CREATE);
	H5Pset_create_intermediate_group(p, 1);
	return p;
}

static hid_t h5_default(void) { return H5P_DEFAULT; }
static hid_t h5s_all(void)    { return H5S_ALL; }
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Error wraps any failure reported by the HDF5 library.
type Error struct {
	Op   string
	Name string
}

func (e *Error) Error() string {
	return fmt.Sprintf("hdf5: %s %s", e.Op, e.Name)
}

func newError(op, name string) error {
	return &Error{Op: op, Name: name}
}

// File is an open HDF5 file.
type File struct {
	id C.hid_t
}

// Create creates a new file, truncating any existing one.
func Create(path string) (*File, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	id := C.H5Fcreate(cpath, C.H5F_ACC_TRUNC, C.h5_default(), C.h5_default())
	if id < 0 {
		return nil, newError("create", path)
	}
	return &File{id: id}, nil
}

// Open opens an existing file read-only.
func Open(path string) (*File, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	id := C.H5Fopen(cpath, C.H5F_ACC_RDONLY, C.h5_default())
	if id < 0 {
		return nil, newError("open", path)
	}
	return &File{id: id}, nil
}

func (f *File) Close() error {
	if f.id < 0 {
		return nil
	}
	status := C.H5Fclose(f.id)
	f.id = -1
	if status < 0 {
		return newError("close", "file")
	}
	return nil
}

// CreateGroup creates a group, including intermediate groups.
func (f *File) CreateGroup(path string) error {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	lcpl := C.h5p_mkdirs()
	defer C.H5Pclose(lcpl)
	gid := C.H5Gcreate2(f.id, cpath, lcpl, C.h5_default(), C.h5_default())
	if gid < 0 {
		return newError("create group", path)
	}
	C.H5Gclose(gid)
	return nil
}

// Exists reports whether a link exists at path.
func (f *File) Exists(path string) bool {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return C.H5Lexists(f.id, cpath, C.h5_default()) > 0
}

// WriteBytes creates a 1-dimensional uint8 dataset holding data.
func (f *File) WriteBytes(path string, data []byte) error {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	dims := [1]C.hsize_t{C.hsize_t(len(data))}
	sid := C.H5Screate_simple(1, &dims[0], nil)
	if sid < 0 {
		return newError("create dataspace", path)
	}
	defer C.H5Sclose(sid)

	lcpl := C.h5p_mkdirs()
	defer C.H5Pclose(lcpl)
	did := C.H5Dcreate2(f.id, cpath, C.h5t_u8(), sid, lcpl, C.h5_default(), C.h5_default())
	if did < 0 {
		return newError("create dataset", path)
	}
	defer C.H5Dclose(did)

	if len(data) == 0 {
		return nil
	}
	status := C.H5Dwrite(did, C.h5t_u8(), C.h5s_all(), C.h5s_all(), C.h5_default(), unsafe.Pointer(&data[0]))
	if status < 0 {
		return newError("write dataset", path)
	}
	return nil
}

// ReadBytes reads a 1-dimensional uint8 dataset.
func (f *File) ReadBytes(path string) ([]byte, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	did := C.H5Dopen2(f.id, cpath, C.h5_default())
	if did < 0 {
		return nil, newError("open dataset", path)
	}
	defer C.H5Dclose(did)

	sid := C.H5Dget_space(did)
	if sid < 0 {
		return nil, newError("get dataspace", path)
	}
	defer C.H5Sclose(sid)

	n := C.H5Sget_simple_extent_npoints(sid)
	if n < 0 {
		return nil, newError("get extent", path)
	}
	if n == 0 {
		return nil, nil
	}
	data := make([]byte, int(n))
	status := C.H5Dread(did, C.h5t_u8(), C.h5s_all(), C.h5s_all(), C.h5_default(), unsafe.Pointer(&data[0]))
	if status < 0 {
		return nil, newError("read dataset", path)
	}
	return data, nil
}

// WriteRefs creates a dataset at path containing object references to the
// target paths. The targets must already exist.
func (f *File) WriteRefs(path string, targets []string) error {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	refs := make([]C.hobj_ref_t, len(targets)+1)
	for i, target := range targets {
		ctarget := C.CString(target)
		status := C.H5Rcreate(unsafe.Pointer(&refs[i]), f.id, ctarget, C.H5R_OBJECT, -1)
		C.free(unsafe.Pointer(ctarget))
		if status < 0 {
			return newError("create reference", target)
		}
	}

	dims := [1]C.hsize_t{C.hsize_t(len(targets))}
	sid := C.H5Screate_simple(1, &dims[0], nil)
	if sid < 0 {
		return newError("create dataspace", path)
	}
	defer C.H5Sclose(sid)

	lcpl := C.h5p_mkdirs()
	defer C.H5Pclose(lcpl)
	did := C.H5Dcreate2(f.id, cpath, C.h5t_ref(), sid, lcpl, C.h5_default(), C.h5_default())
	if did < 0 {
		return newError("create dataset", path)
	}
	defer C.H5Dclose(did)

	if len(targets) == 0 {
		return nil
	}
	status := C.H5Dwrite(did, C.h5t_ref(), C.h5s_all(), C.h5s_all(), C.h5_default(), unsafe.Pointer(&refs[0]))
	if status < 0 {
		return newError("write dataset", path)
	}
	return nil
}

// WriteScalarRef creates a scalar dataset at path holding one object
// reference to target.
func (f *File) WriteScalarRef(path, target string) error {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var ref C.hobj_ref_t
	ctarget := C.CString(target)
	status := C.H5Rcreate(unsafe.Pointer(&ref), f.id, ctarget, C.H5R_OBJECT, -1)
	C.free(unsafe.Pointer(ctarget))
	if status < 0 {
		return newError("create reference", target)
	}

	sid := C.H5Screate(C.H5S_SCALAR)
	if sid < 0 {
		return newError("create dataspace", path)
	}
	defer C.H5Sclose(sid)

	lcpl := C.h5p_mkdirs()
	defer C.H5Pclose(lcpl)
	did := C.H5Dcreate2(f.id, cpath, C.h5t_ref(), sid, lcpl, C.h5_default(), C.h5_default())
	if did < 0 {
		return newError("create dataset", path)
	}
	defer C.H5Dclose(did)

	if C.H5Dwrite(did, C.h5t_ref(), C.h5s_all(), C.h5s_all(), C.h5_default(), unsafe.Pointer(&ref)) < 0 {
		return newError("write dataset", path)
	}
	return nil
}

func (f *File) openObject(path string) (C.hid_t, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	oid := C.H5Oopen(f.id, cpath, C.h5_default())
	if oid < 0 {
		return -1, newError("open object", path)
	}
	return oid, nil
}

// SetStrAttr attaches a scalar fixed-ascii attribute sized to the exact
// bytes of value.
func (f *File) SetStrAttr(objPath, name, value string) error {
	oid, err := f.openObject(objPath)
	if err != nil {
		return err
	}
	defer C.H5Oclose(oid)

	data := []byte(value)
	if len(data) == 0 {
		data = []byte{0}
	}
	tid := C.h5t_ascii(C.size_t(len(data)))
	defer C.H5Tclose(tid)
	sid := C.H5Screate(C.H5S_SCALAR)
	defer C.H5Sclose(sid)

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	aid := C.H5Acreate2(oid, cname, tid, sid, C.h5_default(), C.h5_default())
	if aid < 0 {
		return newError("create attribute", name)
	}
	defer C.H5Aclose(aid)

	if C.H5Awrite(aid, tid, unsafe.Pointer(&data[0])) < 0 {
		return newError("write attribute", name)
	}
	return nil
}

// SetStrListAttr attaches a 1-dimensional fixed-ascii attribute, each
// element padded to the longest value.
func (f *File) SetStrListAttr(objPath, name string, values []string) error {
	oid, err := f.openObject(objPath)
	if err != nil {
		return err
	}
	defer C.H5Oclose(oid)

	width := 1
	for _, v := range values {
		if len(v) > width {
			width = len(v)
		}
	}
	data := make([]byte, width*len(values)+1)
	for i, v := range values {
		copy(data[i*width:(i+1)*width], v)
	}

	tid := C.h5t_ascii(C.size_t(width))
	defer C.H5Tclose(tid)
	dims := [1]C.hsize_t{C.hsize_t(len(values))}
	sid := C.H5Screate_simple(1, &dims[0], nil)
	defer C.H5Sclose(sid)

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	aid := C.H5Acreate2(oid, cname, tid, sid, C.h5_default(), C.h5_default())
	if aid < 0 {
		return newError("create attribute", name)
	}
	defer C.H5Aclose(aid)

	if len(values) > 0 {
		if C.H5Awrite(aid, tid, unsafe.Pointer(&data[0])) < 0 {
			return newError("write attribute", name)
		}
	}
	return nil
}

func (f *File) setNumAttr(objPath, name string, tid C.hid_t, ptr unsafe.Pointer) error {
	oid, err := f.openObject(objPath)
	if err != nil {
		return err
	}
	defer C.H5Oclose(oid)

	sid := C.H5Screate(C.H5S_SCALAR)
	defer C.H5Sclose(sid)
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	aid := C.H5Acreate2(oid, cname, tid, sid, C.h5_default(), C.h5_default())
	if aid < 0 {
		return newError("create attribute", name)
	}
	defer C.H5Aclose(aid)
	if C.H5Awrite(aid, tid, ptr) < 0 {
		return newError("write attribute", name)
	}
	return nil
}

// SetIntAttr attaches a scalar signed 64-bit attribute.
func (f *File) SetIntAttr(objPath, name string, value int64) error {
	v := C.int64_t(value)
	return f.setNumAttr(objPath, name, C.h5t_i64(), unsafe.Pointer(&v))
}

// SetUintAttr attaches a scalar unsigned 64-bit attribute.
func (f *File) SetUintAttr(objPath, name string, value uint64) error {
	v := C.uint64_t(value)
	return f.setNumAttr(objPath, name, C.h5t_u64(), unsafe.Pointer(&v))
}

// SetFloatAttr attaches a scalar 32-bit float attribute.
func (f *File) SetFloatAttr(objPath, name string, value float32) error {
	v := C.float(value)
	return f.setNumAttr(objPath, name, C.h5t_f32(), unsafe.Pointer(&v))
}

// SetUintListAttr attaches a 1-dimensional unsigned 64-bit attribute.
func (f *File) SetUintListAttr(objPath, name string, values []uint64) error {
	oid, err := f.openObject(objPath)
	if err != nil {
		return err
	}
	defer C.H5Oclose(oid)

	dims := [1]C.hsize_t{C.hsize_t(len(values))}
	sid := C.H5Screate_simple(1, &dims[0], nil)
	defer C.H5Sclose(sid)
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	aid := C.H5Acreate2(oid, cname, C.h5t_u64(), sid, C.h5_default(), C.h5_default())
	if aid < 0 {
		return newError("create attribute", name)
	}
	defer C.H5Aclose(aid)
	if len(values) > 0 {
		if C.H5Awrite(aid, C.h5t_u64(), unsafe.Pointer(&values[0])) < 0 {
			return newError("write attribute", name)
		}
	}
	return nil
}

func (f *File) openAttr(objPath, name string) (C.hid_t, C.hid_t, error) {
	oid, err := f.openObject(objPath)
	if err != nil {
		return -1, -1, err
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	aid := C.H5Aopen(oid, cname, C.h5_default())
	if aid < 0 {
		C.H5Oclose(oid)
		return -1, -1, newError("open attribute", name)
	}
	return oid, aid, nil
}

// StrAttr reads a fixed-ascii attribute, scalar or 1-dimensional, and
// returns its first element trimmed of padding.
func (f *File) StrAttr(objPath, name string) (string, error) {
	oid, aid, err := f.openAttr(objPath, name)
	if err != nil {
		return "", err
	}
	defer C.H5Oclose(oid)
	defer C.H5Aclose(aid)

	tid := C.H5Aget_type(aid)
	defer C.H5Tclose(tid)
	size := C.H5Tget_size(tid)
	sid := C.H5Aget_space(aid)
	defer C.H5Sclose(sid)
	n := C.H5Sget_simple_extent_npoints(sid)
	if n < 1 {
		n = 1
	}

	buf := make([]byte, int(size)*int(n))
	if C.H5Aread(aid, tid, unsafe.Pointer(&buf[0])) < 0 {
		return "", newError("read attribute", name)
	}
	first := buf[:int(size)]
	for i, b := range first {
		if b == 0 {
			first = first[:i]
			break
		}
	}
	return string(first), nil
}

func (f *File) numAttr(objPath, name string, tid C.hid_t, ptr unsafe.Pointer) error {
	oid, aid, err := f.openAttr(objPath, name)
	if err != nil {
		return err
	}
	defer C.H5Oclose(oid)
	defer C.H5Aclose(aid)
	if C.H5Aread(aid, tid, ptr) < 0 {
		return newError("read attribute", name)
	}
	return nil
}

// IntAttr reads a scalar signed 64-bit attribute.
func (f *File) IntAttr(objPath, name string) (int64, error) {
	var v C.int64_t
	err := f.numAttr(objPath, name, C.h5t_i64(), unsafe.Pointer(&v))
	return int64(v), err
}

// UintAttr reads a scalar unsigned 64-bit attribute.
func (f *File) UintAttr(objPath, name string) (uint64, error) {
	var v C.uint64_t
	err := f.numAttr(objPath, name, C.h5t_u64(), unsafe.Pointer(&v))
	return uint64(v), err
}

// FloatAttr reads a scalar 32-bit float attribute.
func (f *File) FloatAttr(objPath, name string) (float32, error) {
	var v C.float
	err := f.numAttr(objPath, name, C.h5t_f32(), unsafe.Pointer(&v))
	return float32(v), err
}

// StrListAttr reads a 1-dimensional fixed-ascii attribute as a slice,
// each element trimmed of padding.
func (f *File) StrListAttr(objPath, name string) ([]string, error) {
	oid, aid, err := f.openAttr(objPath, name)
	if err != nil {
		return nil, err
	}
	defer C.H5Oclose(oid)
	defer C.H5Aclose(aid)

	tid := C.H5Aget_type(aid)
	defer C.H5Tclose(tid)
	size := int(C.H5Tget_size(tid))
	sid := C.H5Aget_space(aid)
	defer C.H5Sclose(sid)
	n := int(C.H5Sget_simple_extent_npoints(sid))
	if n <= 0 {
		return nil, nil
	}

	buf := make([]byte, size*n)
	if C.H5Aread(aid, tid, unsafe.Pointer(&buf[0])) < 0 {
		return nil, newError("read attribute", name)
	}
	values := make([]string, n)
	for i := 0; i < n; i++ {
		elem := buf[i*size : (i+1)*size]
		for j, b := range elem {
			if b == 0 {
				elem = elem[:j]
				break
			}
		}
		values[i] = string(elem)
	}
	return values, nil
}

// UintListAttr reads a 1-dimensional unsigned 64-bit attribute.
func (f *File) UintListAttr(objPath, name string) ([]uint64, error) {
	oid, aid, err := f.openAttr(objPath, name)
	if err != nil {
		return nil, err
	}
	defer C.H5Oclose(oid)
	defer C.H5Aclose(aid)

	sid := C.H5Aget_space(aid)
	defer C.H5Sclose(sid)
	n := int(C.H5Sget_simple_extent_npoints(sid))
	if n <= 0 {
		return nil, nil
	}
	values := make([]uint64, n)
	if C.H5Aread(aid, C.h5t_u64(), unsafe.Pointer(&values[0])) < 0 {
		return nil, newError("read attribute", name)
	}
	return values, nil
}

// Children lists the link names directly under a group, in name order.
func (f *File) Children(path string) ([]string, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	gid := C.H5Gopen2(f.id, cpath, C.h5_default())
	if gid < 0 {
		return nil, newError("open group", path)
	}
	defer C.H5Gclose(gid)

	var info C.H5G_info_t
	if C.H5Gget_info(gid, &info) < 0 {
		return nil, newError("get group info", path)
	}

	cdot := C.CString(".")
	defer C.free(unsafe.Pointer(cdot))

	names := make([]string, 0, int(info.nlinks))
	for i := C.hsize_t(0); i < info.nlinks; i++ {
		n := C.H5Lget_name_by_idx(gid, cdot, C.H5_INDEX_NAME, C.H5_ITER_INC, i, nil, 0, C.h5_default())
		if n < 0 {
			return nil, newError("get link name", path)
		}
		buf := make([]byte, int(n)+1)
		C.H5Lget_name_by_idx(gid, cdot, C.H5_INDEX_NAME, C.H5_ITER_INC, i,
			(*C.char)(unsafe.Pointer(&buf[0])), C.size_t(len(buf)), C.h5_default())
		names = append(names, string(buf[:int(n)]))
	}
	return names, nil
}
